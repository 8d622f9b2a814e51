package chathub_test

import (
	"sync"

	"groupchat/backend/internal/models"
)

type MockClient struct {
	connectionID string
	RecvChannel  chan models.Envelope

	mu     sync.Mutex
	closed bool
}

func newMockClient(connectionID string, buffer int) *MockClient {
	return &MockClient{
		connectionID: connectionID,
		RecvChannel:  make(chan models.Envelope, buffer),
	}
}

func (c *MockClient) GetConnectionID() string {
	return c.connectionID
}

func (c *MockClient) GetSendChannel() chan<- models.Envelope {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MockClient) Drain() []models.Envelope {
	var out []models.Envelope
	for {
		select {
		case env := <-c.RecvChannel:
			out = append(out, env)
		default:
			return out
		}
	}
}
