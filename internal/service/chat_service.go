// Package service orchestrates the registries and the event subject. Every
// mutating call runs mutate, recompute and publish as one serialized step so
// events come out in the order the mutations happened.
package service

import (
	"context"
	"log/slog"
	"sync"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"
	"groupchat/backend/internal/registry"
)

// Publisher fans a domain event out to its observers.
type Publisher interface {
	Notify(ctx context.Context, evt models.Event)
}

type ChatService struct {
	users     registry.UserRepository
	messages  registry.MessageRepository
	rooms     registry.RoomRepository
	publisher Publisher
	log       *slog.Logger

	mu sync.Mutex
}

func NewChatService(
	users registry.UserRepository,
	messages registry.MessageRepository,
	rooms registry.RoomRepository,
	publisher Publisher,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		users:     users,
		messages:  messages,
		rooms:     rooms,
		publisher: publisher,
		log:       log,
	}
}

// CreateUser registers a user, places it in the default room and publishes UserJoined.
func (s *ChatService) CreateUser(ctx context.Context, name, connectionID string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.users.CreateUser(name, connectionID)
	s.rooms.AddUserToRoom(config.DefaultRoomID, user)
	users := s.users.ListActiveUsers()

	s.log.Info("User joined", "user_id", user.ID, "name", user.Name)
	s.publisher.Notify(ctx, models.UserJoined{User: user, Users: users})
	return user
}

// SendMessage stores a message from userID. It reports false, and publishes
// nothing, when the user is unknown.
func (s *ChatService) SendMessage(ctx context.Context, userID, content, roomID string) (models.Message, bool) {
	if roomID == "" {
		roomID = config.DefaultRoomID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.GetUserByID(userID)
	if !ok {
		s.log.Warn("Message from unknown user", "user_id", userID)
		return models.Message{}, false
	}

	msg := s.messages.CreateMessage(user.ID, user.Name, content, roomID)
	members := s.rooms.Members(roomID)

	s.publisher.Notify(ctx, models.MessageSent{Message: msg, Users: members, RoomID: roomID})
	return msg, true
}

// Disconnect deactivates the user bound to connectionID, removes it from every
// room and publishes UserLeft.
func (s *ChatService) Disconnect(ctx context.Context, connectionID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.GetUserByConnection(connectionID)
	if !ok {
		return models.User{}, false
	}
	s.users.DeactivateUser(user.ID)
	s.rooms.RemoveUserFromAllRooms(user.ID)
	if updated, ok := s.users.GetUserByID(user.ID); ok {
		user = updated
	}
	users := s.users.ListActiveUsers()

	s.log.Info("User left", "user_id", user.ID, "name", user.Name)
	s.publisher.Notify(ctx, models.UserLeft{User: user, Users: users})
	return user, true
}

// UpdateConnection rebinds userID to connectionID and publishes UsersUpdated.
func (s *ChatService) UpdateConnection(ctx context.Context, userID, connectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.users.UpdateConnection(userID, connectionID) {
		return false
	}
	if user, ok := s.users.GetUserByID(userID); ok {
		s.rooms.AddUserToRoom(config.DefaultRoomID, user)
	}
	users := s.users.ListActiveUsers()

	s.publisher.Notify(ctx, models.UsersUpdated{Users: users})
	return true
}

// DeleteUser removes the user for good. The roster shrinks, so UsersUpdated
// is published when the user was known.
func (s *ChatService) DeleteUser(ctx context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.users.DeleteUser(userID) {
		return false
	}
	s.rooms.RemoveUserFromAllRooms(userID)
	users := s.users.ListActiveUsers()

	s.log.Info("User deleted", "user_id", userID)
	s.publisher.Notify(ctx, models.UsersUpdated{Users: users})
	return true
}

func (s *ChatService) DeleteMessage(messageID string) bool {
	ok := s.messages.DeleteMessage(messageID)
	if ok {
		s.log.Info("Message deleted", "message_id", messageID)
	}
	return ok
}

func (s *ChatService) GetUser(userID string) (models.User, bool) {
	return s.users.GetUserByID(userID)
}

func (s *ChatService) GetUserByConnection(connectionID string) (models.User, bool) {
	return s.users.GetUserByConnection(connectionID)
}

func (s *ChatService) ListActiveUsers() []models.User {
	return s.users.ListActiveUsers()
}

func (s *ChatService) GetMessagesByRoom(roomID string, limit int) []models.Message {
	return s.messages.GetMessagesByRoom(roomID, limit)
}

func (s *ChatService) GetRecentMessages(limit int) []models.Message {
	return s.messages.GetRecentMessages(limit)
}
