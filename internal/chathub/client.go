package chathub

import "groupchat/backend/internal/models"

// Client is one live transport connection managed by the hub.
type Client interface {
	// GetConnectionID returns the handle the chat core knows this connection by.
	GetConnectionID() string

	// GetSendChannel returns the channel the hub writes outbound envelopes to.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the outbound channel; the write pump then closes the connection.
	Close()
}
