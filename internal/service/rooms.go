package service

import (
	"groupchat/backend/internal/models"
)

// Room operations change membership only; the active roster stays the same,
// so none of them publish an event.

func (s *ChatService) CreateRoom(name string) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.CreateRoom(name)
}

func (s *ChatService) GetRoom(roomID string) (models.Room, bool) {
	return s.rooms.GetRoom(roomID)
}

func (s *ChatService) ListRooms() []models.Room {
	return s.rooms.ListRooms()
}

// JoinRoom adds an active user to an active room.
func (s *ChatService) JoinRoom(roomID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.GetUserByID(userID)
	if !ok || !user.IsActive {
		return false
	}
	room, ok := s.rooms.GetRoom(roomID)
	if !ok || !room.IsActive {
		return false
	}
	return s.rooms.AddUserToRoom(roomID, user)
}

func (s *ChatService) LeaveRoom(roomID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.RemoveUserFromRoom(roomID, userID)
}

func (s *ChatService) DeactivateRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.DeactivateRoom(roomID)
}
