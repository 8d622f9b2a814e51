package models

type EventType string

const (
	EventUserJoined   EventType = "user_joined"
	EventUserLeft     EventType = "user_left"
	EventUsersUpdated EventType = "users_updated"
	EventMessageSent  EventType = "message_sent"
)

// Event is a domain event published by the chat service. Every variant carries
// value snapshots so consumers never have to read the registries back.
type Event interface {
	Type() EventType
}

type UserJoined struct {
	User  User
	Users []User
}

type UserLeft struct {
	User  User
	Users []User
}

type UsersUpdated struct {
	Users []User
}

type MessageSent struct {
	Message Message
	Users   []User
	RoomID  string
}

func (UserJoined) Type() EventType   { return EventUserJoined }
func (UserLeft) Type() EventType     { return EventUserLeft }
func (UsersUpdated) Type() EventType { return EventUsersUpdated }
func (MessageSent) Type() EventType  { return EventMessageSent }
