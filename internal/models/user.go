package models

import "time"

// User is a chat participant. A user is bound to at most one live connection
// at a time; on disconnect it is deactivated, never removed.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Room         string    `json:"room"`
	ConnectionID string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsOnline     bool      `json:"is_online"`
	JoinedAt     time.Time `json:"joined_at"`
}
