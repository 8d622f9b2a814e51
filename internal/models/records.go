package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserRecord is the durable mirror of a User.
type UserRecord struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Room     string `gorm:"type:text;not null;default:general" json:"room"`
	IsActive bool   `json:"is_active"`
	IsOnline bool   `gorm:"index" json:"is_online"`
	JoinedAt time.Time
	LastSeen *time.Time
}

// BeforeCreate generates an id when the record is inserted without one.
func (u *UserRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// MessageRecord is the durable mirror of a Message.
type MessageRecord struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:text;not null;index" json:"user_id"`
	UserName    string    `gorm:"type:text;not null" json:"user_name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	MessageType string    `gorm:"type:text;not null" json:"message_type"`
	RoomID      string    `gorm:"type:text;not null;index:idx_room_time" json:"room_id"`
	Timestamp   time.Time `gorm:"index:idx_room_time" json:"timestamp"`
}

func (m *MessageRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// RoomRecord is the durable mirror of a Room. Members are stored as a
// PostgreSQL text array of user ids.
type RoomRecord struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:text;not null" json:"name"`
	MemberIDs pq.StringArray `gorm:"type:text[]" json:"member_ids"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewUserRecord(u User) UserRecord {
	return UserRecord{
		ID:       u.ID,
		Name:     u.Name,
		Room:     u.Room,
		IsActive: u.IsActive,
		IsOnline: u.IsOnline,
		JoinedAt: u.JoinedAt,
	}
}

func NewMessageRecord(m Message) MessageRecord {
	return MessageRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		UserName:    m.UserName,
		Content:     m.Content,
		MessageType: string(m.MessageType),
		RoomID:      m.RoomID,
		Timestamp:   m.Timestamp,
	}
}

func NewRoomRecord(r Room) RoomRecord {
	ids := make(pq.StringArray, 0, len(r.Users))
	for _, u := range r.Users {
		ids = append(ids, u.ID)
	}
	return RoomRecord{
		ID:        r.ID,
		Name:      r.Name,
		MemberIDs: ids,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

func (r MessageRecord) ToMessage() Message {
	return Message{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Content:     r.Content,
		MessageType: MessageType(r.MessageType),
		RoomID:      r.RoomID,
		Timestamp:   r.Timestamp,
	}
}
