package storage

import (
	"context"
	"fmt"
	"slices"

	"groupchat/backend/internal/models"

	"gorm.io/gorm/clause"
)

// ListUsers returns every persisted user, oldest first.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	var users []models.UserRecord
	if err := s.DB.WithContext(ctx).Order("joined_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetChatHistory returns the last limit persisted messages of a room, oldest first.
func (s *Service) GetChatHistory(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		return []models.Message{}, nil
	}
	var records []models.MessageRecord
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("chat history for room %s: %w", roomID, err)
	}

	history := make([]models.Message, 0, len(records))
	for _, r := range records {
		history = append(history, r.ToMessage())
	}
	slices.Reverse(history)
	return history, nil
}

func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.MessageRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return nil
}

// OnlineUserIDs reads the Redis presence set.
func (s *Service) OnlineUserIDs(ctx context.Context) ([]string, error) {
	if s.Redis == nil {
		return nil, ErrPresenceUnavailable
	}
	ids, err := s.Redis.SMembers(ctx, presenceOnlineKey).Result()
	if err != nil {
		return nil, fmt.Errorf("online users: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}
