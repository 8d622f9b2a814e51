package registry

import (
	"slices"
	"sort"
	"sync"
	"time"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"

	"github.com/google/uuid"
)

// MessageStore keeps messages by id plus an ordered id list per room.
// Timestamps never go backwards: a clock step back reuses the last timestamp.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string]models.Message
	order    []string
	byRoom   map[string][]string
	last     time.Time
	shadow   Shadow
	now      func() time.Time
}

func NewMessageStore(shadow Shadow, opts ...Option) *MessageStore {
	o := buildOptions(opts)
	return &MessageStore{
		messages: make(map[string]models.Message),
		byRoom:   make(map[string][]string),
		shadow:   shadow,
		now:      o.now,
	}
}

func (s *MessageStore) CreateMessage(userID, userName, content, roomID string) models.Message {
	if roomID == "" {
		roomID = config.DefaultRoomID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	s.last = ts

	m := models.Message{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserName:    userName,
		Content:     content,
		MessageType: models.MessageTypeText,
		RoomID:      roomID,
		Timestamp:   ts,
	}
	s.messages[m.ID] = m
	s.order = append(s.order, m.ID)
	s.byRoom[roomID] = append(s.byRoom[roomID], m.ID)

	if s.shadow != nil {
		s.shadow.SaveMessage(m)
	}
	return m
}

func (s *MessageStore) GetMessage(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	return m, ok
}

// GetMessagesByRoom returns the last limit messages of the room, oldest first.
func (s *MessageStore) GetMessagesByRoom(roomID string, limit int) []models.Message {
	if limit <= 0 {
		return []models.Message{}
	}

	s.mu.RLock()
	ids := s.byRoom[roomID]
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	out := make([]models.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.messages[id])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// GetRecentMessages returns the newest limit messages across all rooms, newest first.
func (s *MessageStore) GetRecentMessages(limit int) []models.Message {
	if limit <= 0 {
		return []models.Message{}
	}

	s.mu.RLock()
	out := make([]models.Message, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.messages[s.order[i]])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MessageStore) DeleteMessage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return false
	}
	delete(s.messages, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	s.byRoom[m.RoomID] = slices.DeleteFunc(s.byRoom[m.RoomID], func(x string) bool { return x == id })
	return true
}
