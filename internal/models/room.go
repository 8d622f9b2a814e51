package models

import (
	"strings"
	"time"
)

// Room groups users by id. Members are kept in insertion order without duplicates.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Users     []User    `json:"users"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomIDFromName derives the room id: lowercase, spaces replaced by underscores.
func RoomIDFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// HasUser reports whether userID is a member of the room.
func (r Room) HasUser(userID string) bool {
	for _, u := range r.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
