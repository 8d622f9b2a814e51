package models

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
)

// Outbound event names.
const (
	WireConnected      = "connected"
	WireJoinedChat     = "joined_chat"
	WireUsersList      = "users_list"
	WireRecentMessages = "recent_messages"
	WireUserJoined     = "user_joined"
	WireUserLeft       = "user_left"
	WireUsersUpdated   = "users_updated"
	WireNewMessage     = "new_message"
	WireError          = "error"
)

// Inbound event names.
const (
	WireJoinChat    = "join_chat"
	WireSendMessage = "send_message"
	WireGetUsers    = "get_users"
)

// Frame is one inbound websocket frame. Data is decoded by the handler for Event.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Envelope is one outbound websocket frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Target addresses an emission at either one connection or every member of a room.
type Target struct {
	Connection string
	Room       string
}

func ToConnection(connectionID string) Target { return Target{Connection: connectionID} }
func ToRoom(roomID string) Target             { return Target{Room: roomID} }

// UserSummary is the public projection of a user sent to clients.
type UserSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
	JoinedAt time.Time `json:"joined_at"`
}

func Summarize(u User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, IsActive: u.IsActive, JoinedAt: u.JoinedAt}
}

func SummarizeAll(users []User) []UserSummary {
	return lo.Map(users, func(u User, _ int) UserSummary { return Summarize(u) })
}

type UsersListPayload struct {
	Users []UserSummary `json:"users"`
	Count int           `json:"count"`
}

func NewUsersList(users []User) UsersListPayload {
	return UsersListPayload{Users: SummarizeAll(users), Count: len(users)}
}

type PresencePayload struct {
	User       UserSummary `json:"user"`
	UsersCount int         `json:"users_count"`
}

type RecentMessagesPayload struct {
	Messages []Message `json:"messages"`
}

type JoinedChatPayload struct {
	User    UserSummary `json:"user"`
	Message string      `json:"message"`
}

type ConnectedPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
