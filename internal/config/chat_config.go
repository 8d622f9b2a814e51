package config

const (
	// Rooms
	DefaultRoomID   = "general"
	DefaultRoomName = "General"

	// Users
	MinNameLength = 1
	MaxNameLength = 50

	// Messages
	MinContentLength = 1
	MaxContentLength = 1000

	// Notifications
	NotificationBodyLimit = 100

	// History windows
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)
