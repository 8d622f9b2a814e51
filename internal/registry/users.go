package registry

import (
	"sync"
	"time"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"

	"github.com/google/uuid"
)

// UserStore indexes users by id and by connection handle. A handle maps to at
// most one user; assigning it to another user displaces the previous holder.
type UserStore struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	order        []string
	byConnection map[string]string
	shadow       Shadow
	now          func() time.Time
}

func NewUserStore(shadow Shadow, opts ...Option) *UserStore {
	o := buildOptions(opts)
	return &UserStore{
		users:        make(map[string]*models.User),
		byConnection: make(map[string]string),
		shadow:       shadow,
		now:          o.now,
	}
}

func (s *UserStore) CreateUser(name, connectionID string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Room:         config.DefaultRoomID,
		ConnectionID: connectionID,
		IsActive:     true,
		IsOnline:     true,
		JoinedAt:     s.now(),
	}
	if connectionID != "" {
		s.bindConnection(u.ID, connectionID)
	}
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)

	if s.shadow != nil {
		s.shadow.SaveUser(*u)
	}
	return *u
}

func (s *UserStore) GetUserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (s *UserStore) GetUserByConnection(connectionID string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byConnection[connectionID]
	if !ok {
		return models.User{}, false
	}
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (s *UserStore) ListActiveUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		if u := s.users[id]; u.IsActive {
			active = append(active, *u)
		}
	}
	return active
}

// UpdateConnection binds id to connectionID and marks the user online again.
func (s *UserStore) UpdateConnection(id, connectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	if u.ConnectionID != "" && s.byConnection[u.ConnectionID] == id {
		delete(s.byConnection, u.ConnectionID)
	}
	u.ConnectionID = connectionID
	if connectionID != "" {
		s.bindConnection(id, connectionID)
	}
	u.IsActive = true
	u.IsOnline = true

	if s.shadow != nil {
		s.shadow.UpdateUserStatus(id, true)
	}
	return true
}

// DeactivateUser marks the user offline and releases its connection handle.
// Room membership is left to the caller.
func (s *UserStore) DeactivateUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	if u.ConnectionID != "" && s.byConnection[u.ConnectionID] == id {
		delete(s.byConnection, u.ConnectionID)
	}
	u.ConnectionID = ""
	u.IsActive = false
	u.IsOnline = false

	if s.shadow != nil {
		s.shadow.UpdateUserStatus(id, false)
	}
	return true
}

func (s *UserStore) DeleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	if u.ConnectionID != "" && s.byConnection[u.ConnectionID] == id {
		delete(s.byConnection, u.ConnectionID)
	}
	delete(s.users, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// bindConnection must be called with mu held.
func (s *UserStore) bindConnection(id, connectionID string) {
	if prev, ok := s.byConnection[connectionID]; ok && prev != id {
		if holder, ok := s.users[prev]; ok {
			holder.ConnectionID = ""
		}
	}
	s.byConnection[connectionID] = id
}
