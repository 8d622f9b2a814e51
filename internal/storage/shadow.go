package storage

import (
	"context"
	"fmt"
	"log/slog"

	"groupchat/backend/internal/models"
	"groupchat/backend/internal/worker"
)

// Shadow forwards registry writes to a Storage on a background pool. Writes
// are fire-and-forget: a full queue drops the write and failures are only logged.
type Shadow struct {
	store Storage
	pool  *worker.Pool
	log   *slog.Logger
}

func NewShadow(store Storage, pool *worker.Pool, log *slog.Logger) *Shadow {
	return &Shadow{store: store, pool: pool, log: log}
}

func (s *Shadow) SaveUser(u models.User) {
	s.submit("save_user", func(ctx context.Context) error {
		return s.store.SaveUser(ctx, u)
	})
}

func (s *Shadow) SaveMessage(m models.Message) {
	s.submit("save_message", func(ctx context.Context) error {
		return s.store.SaveMessage(ctx, m)
	})
}

func (s *Shadow) SaveRoom(r models.Room) {
	s.submit("save_room", func(ctx context.Context) error {
		return s.store.SaveRoom(ctx, r)
	})
}

func (s *Shadow) UpdateUserStatus(userID string, online bool) {
	s.submit("update_user_status", func(ctx context.Context) error {
		return s.store.UpdateUserStatus(ctx, userID, online)
	})
}

func (s *Shadow) submit(op string, write worker.Task) {
	err := s.pool.Submit(func(ctx context.Context) error {
		if err := write(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Persistence write dropped", "op", op, "error", err)
	}
}
