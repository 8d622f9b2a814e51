// Package registry holds the authoritative in-memory chat state: users,
// messages and rooms. Every store is safe for concurrent use and hands each
// write to an optional Shadow for best-effort persistence.
package registry

import (
	"time"

	"groupchat/backend/internal/models"
)

// Shadow receives a copy of every registry write. Implementations must not
// block; a nil Shadow keeps the store purely in memory.
type Shadow interface {
	SaveUser(u models.User)
	SaveMessage(m models.Message)
	SaveRoom(r models.Room)
	UpdateUserStatus(userID string, online bool)
}

type UserRepository interface {
	CreateUser(name, connectionID string) models.User
	GetUserByID(id string) (models.User, bool)
	GetUserByConnection(connectionID string) (models.User, bool)
	ListActiveUsers() []models.User
	UpdateConnection(id, connectionID string) bool
	DeactivateUser(id string) bool
	DeleteUser(id string) bool
}

type MessageRepository interface {
	CreateMessage(userID, userName, content, roomID string) models.Message
	GetMessage(id string) (models.Message, bool)
	GetMessagesByRoom(roomID string, limit int) []models.Message
	GetRecentMessages(limit int) []models.Message
	DeleteMessage(id string) bool
}

type RoomRepository interface {
	CreateRoom(name string) models.Room
	GetRoom(id string) (models.Room, bool)
	ListRooms() []models.Room
	AddUserToRoom(roomID string, user models.User) bool
	RemoveUserFromRoom(roomID, userID string) bool
	RemoveUserFromAllRooms(userID string) []string
	Members(roomID string) []models.User
	DeactivateRoom(id string) bool
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
