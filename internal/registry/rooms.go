package registry

import (
	"slices"
	"sync"
	"time"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"
)

// RoomStore owns rooms and their membership. The default room is created
// with the store and can never be deactivated.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]*models.Room
	order  []string
	shadow Shadow
	now    func() time.Time
}

func NewRoomStore(shadow Shadow, opts ...Option) *RoomStore {
	o := buildOptions(opts)
	s := &RoomStore{
		rooms:  make(map[string]*models.Room),
		shadow: shadow,
		now:    o.now,
	}
	s.CreateRoom(config.DefaultRoomName)
	return s
}

// CreateRoom returns the room derived from name, creating or reactivating it.
func (s *RoomStore) CreateRoom(name string) models.Room {
	id := models.RoomIDFromName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rooms[id]; ok {
		if !r.IsActive {
			r.IsActive = true
			s.save(r)
		}
		return cloneRoom(r)
	}

	r := &models.Room{
		ID:        id,
		Name:      name,
		Users:     []models.User{},
		IsActive:  true,
		CreatedAt: s.now(),
	}
	s.rooms[id] = r
	s.order = append(s.order, id)
	s.save(r)
	return cloneRoom(r)
}

func (s *RoomStore) GetRoom(id string) (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return models.Room{}, false
	}
	return cloneRoom(r), true
}

// ListRooms returns active rooms in creation order.
func (s *RoomStore) ListRooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, 0, len(s.order))
	for _, id := range s.order {
		if r := s.rooms[id]; r.IsActive {
			out = append(out, cloneRoom(r))
		}
	}
	return out
}

// AddUserToRoom is idempotent by user id. It reports false only for an unknown room.
func (s *RoomStore) AddUserToRoom(roomID string, user models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	if r.HasUser(user.ID) {
		return true
	}
	r.Users = append(r.Users, user)
	s.save(r)
	return true
}

func (s *RoomStore) RemoveUserFromRoom(roomID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok || !r.HasUser(userID) {
		return false
	}
	r.Users = slices.DeleteFunc(r.Users, func(u models.User) bool { return u.ID == userID })
	s.save(r)
	return true
}

// RemoveUserFromAllRooms drops userID from every room in one critical section
// and returns the ids of the rooms it left.
func (s *RoomStore) RemoveUserFromAllRooms(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var left []string
	for _, id := range s.order {
		r := s.rooms[id]
		if !r.HasUser(userID) {
			continue
		}
		r.Users = slices.DeleteFunc(r.Users, func(u models.User) bool { return u.ID == userID })
		s.save(r)
		left = append(left, id)
	}
	return left
}

// Members returns the room's users, or an empty slice for an unknown room.
func (s *RoomStore) Members(roomID string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return []models.User{}
	}
	return slices.Clone(r.Users)
}

func (s *RoomStore) DeactivateRoom(id string) bool {
	if id == config.DefaultRoomID {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return false
	}
	r.IsActive = false
	s.save(r)
	return true
}

// save must be called with mu held so snapshots reach the shadow in write order.
func (s *RoomStore) save(r *models.Room) {
	if s.shadow != nil {
		s.shadow.SaveRoom(cloneRoom(r))
	}
}

func cloneRoom(r *models.Room) models.Room {
	c := *r
	c.Users = slices.Clone(r.Users)
	if c.Users == nil {
		c.Users = []models.User{}
	}
	return c
}
