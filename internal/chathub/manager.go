package chathub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"groupchat/backend/internal/models"
)

var ErrUnknownConnection = errors.New("unknown connection")

// InboundHandler receives connection lifecycle events and decoded frames.
type InboundHandler interface {
	OnConnect(ctx context.Context, connectionID string)
	OnDisconnect(ctx context.Context, connectionID string)
	HandleFrame(ctx context.Context, connectionID string, frame models.Frame)
}

// ManagerService tracks live clients and their room subscriptions and
// delivers envelopes to them. A client whose buffer is full is dropped.
type ManagerService struct {
	mu          sync.RWMutex
	Clients     map[string]Client
	rooms       map[string]map[string]struct{}
	memberships map[string]map[string]struct{}
	closed      bool

	handler InboundHandler
	log     *slog.Logger
}

func NewManagerService(log *slog.Logger) *ManagerService {
	return &ManagerService{
		Clients:     make(map[string]Client),
		rooms:       make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
		log:         log,
	}
}

// SetHandler must be called before the first client registers.
func (m *ManagerService) SetHandler(h InboundHandler) {
	m.handler = h
}

// Register adds c and reports the connection to the handler.
func (m *ManagerService) Register(ctx context.Context, c Client) {
	id := c.GetConnectionID()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		c.Close()
		return
	}
	m.Clients[id] = c
	m.mu.Unlock()

	m.log.Debug("Client registered", "connection_id", id)
	if m.handler != nil {
		m.handler.OnConnect(ctx, id)
	}
}

// Unregister removes the connection, closes it and reports the disconnect.
// Unknown or already removed connections are ignored.
func (m *ManagerService) Unregister(ctx context.Context, connectionID string) {
	m.mu.Lock()
	c, ok := m.Clients[connectionID]
	if ok {
		m.removeLocked(connectionID)
		c.Close()
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	m.log.Debug("Client unregistered", "connection_id", connectionID)
	if m.handler != nil {
		m.handler.OnDisconnect(ctx, connectionID)
	}
}

// Dispatch hands an inbound frame to the handler.
func (m *ManagerService) Dispatch(ctx context.Context, connectionID string, frame models.Frame) {
	if m.handler == nil {
		return
	}
	m.handler.HandleFrame(ctx, connectionID, frame)
}

// EnterRoom subscribes the connection to room broadcasts.
func (m *ManagerService) EnterRoom(connectionID, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Clients[connectionID]; !ok {
		return fmt.Errorf("enter room %s: %w", roomID, ErrUnknownConnection)
	}
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]struct{})
	}
	m.rooms[roomID][connectionID] = struct{}{}
	if m.memberships[connectionID] == nil {
		m.memberships[connectionID] = make(map[string]struct{})
	}
	m.memberships[connectionID][roomID] = struct{}{}
	return nil
}

func (m *ManagerService) LeaveRoom(connectionID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms[roomID], connectionID)
	if len(m.rooms[roomID]) == 0 {
		delete(m.rooms, roomID)
	}
	delete(m.memberships[connectionID], roomID)
}

// Emit sends a named event to one connection or to every connection in a room.
func (m *ManagerService) Emit(event string, payload any, target models.Target) error {
	env := models.Envelope{Event: event, Data: payload}

	var slow []string
	m.mu.RLock()
	if target.Connection != "" {
		c, ok := m.Clients[target.Connection]
		if !ok {
			m.mu.RUnlock()
			return fmt.Errorf("emit %s: %w", event, ErrUnknownConnection)
		}
		if !trySend(c, env) {
			slow = append(slow, target.Connection)
		}
	} else {
		for id := range m.rooms[target.Room] {
			if !trySend(m.Clients[id], env) {
				slow = append(slow, id)
			}
		}
	}
	m.mu.RUnlock()

	for _, id := range slow {
		m.log.Warn("Dropping slow client", "connection_id", id, "event", event)
		m.Unregister(context.Background(), id)
	}
	return nil
}

// Close disconnects every client without reporting disconnects to the handler.
func (m *ManagerService) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for id, c := range m.Clients {
		c.Close()
		delete(m.Clients, id)
	}
	m.rooms = make(map[string]map[string]struct{})
	m.memberships = make(map[string]map[string]struct{})
}

func (m *ManagerService) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Clients)
}

func (m *ManagerService) RoomSize(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}

// removeLocked must be called with mu held for writing.
func (m *ManagerService) removeLocked(connectionID string) {
	delete(m.Clients, connectionID)
	for roomID := range m.memberships[connectionID] {
		delete(m.rooms[roomID], connectionID)
		if len(m.rooms[roomID]) == 0 {
			delete(m.rooms, roomID)
		}
	}
	delete(m.memberships, connectionID)
}

// trySend must be called with mu held so Close cannot race the send.
func trySend(c Client, env models.Envelope) bool {
	select {
	case c.GetSendChannel() <- env:
		return true
	default:
		return false
	}
}
