package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groupchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	presenceOnlineKey   = "presence:online"
	presenceLastSeenKey = "presence:last_seen"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrPresenceUnavailable = errors.New("presence store is not configured")
)

// Storage is the durable mirror of the in-memory registries.
type Storage interface {
	SaveUser(ctx context.Context, user models.User) error
	SaveMessage(ctx context.Context, msg models.Message) error
	SaveRoom(ctx context.Context, room models.Room) error
	UpdateUserStatus(ctx context.Context, userID string, online bool) error
}

// Service writes to PostgreSQL through GORM and keeps online presence in Redis.
// Redis is optional.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the tables backing the mirror.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.UserRecord{},
		&models.MessageRecord{},
		&models.RoomRecord{},
	)
}

// SaveUser upserts the user row.
func (s *Service) SaveUser(ctx context.Context, user models.User) error {
	rec := models.NewUserRecord(user)
	if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}
	return nil
}

func (s *Service) SaveMessage(ctx context.Context, msg models.Message) error {
	rec := models.NewMessageRecord(msg)
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save message %s in room %s: %w", msg.ID, msg.RoomID, err)
	}
	return nil
}

// SaveRoom upserts the room row including its member ids.
func (s *Service) SaveRoom(ctx context.Context, room models.Room) error {
	rec := models.NewRoomRecord(room)
	if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("save room %s: %w", room.ID, err)
	}
	return nil
}

// UpdateUserStatus records the online flag and last-seen time in the database
// and mirrors them in the Redis presence set.
func (s *Service) UpdateUserStatus(ctx context.Context, userID string, online bool) error {
	now := time.Now()
	err := s.DB.WithContext(ctx).
		Model(&models.UserRecord{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_online": online,
			"is_active": online,
			"last_seen": now,
		}).Error
	if err != nil {
		return fmt.Errorf("update status of user %s: %w", userID, err)
	}

	if s.Redis == nil {
		return nil
	}
	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if online {
			pipe.SAdd(ctx, presenceOnlineKey, userID)
		} else {
			pipe.SRem(ctx, presenceOnlineKey, userID)
		}
		pipe.HSet(ctx, presenceLastSeenKey, userID, now.Unix())
		return nil
	})
	if err != nil {
		return fmt.Errorf("update presence of user %s: %w", userID, err)
	}
	return nil
}
