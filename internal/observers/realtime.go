package observers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"
	"groupchat/backend/internal/worker"
)

// Emitter pushes a named event to a connection or a room.
type Emitter interface {
	Emit(event string, payload any, target models.Target) error
}

// RealtimeObserver mirrors chat events to connected clients. Presence and
// roster updates go to the default room.
type RealtimeObserver struct {
	emitter Emitter
	pool    *worker.Pool
	log     *slog.Logger
}

func NewRealtimeObserver(emitter Emitter, pool *worker.Pool, log *slog.Logger) *RealtimeObserver {
	return &RealtimeObserver{emitter: emitter, pool: pool, log: log}
}

func (o *RealtimeObserver) Handle(ctx context.Context, evt models.Event) error {
	var task worker.Task
	switch e := evt.(type) {
	case models.MessageSent:
		task = func(context.Context) error {
			return o.emitter.Emit(models.WireNewMessage, e.Message, models.ToRoom(e.RoomID))
		}
	case models.UserJoined:
		task = func(context.Context) error {
			return o.presence(models.WireUserJoined, e.User, e.Users)
		}
	case models.UserLeft:
		task = func(context.Context) error {
			return o.presence(models.WireUserLeft, e.User, e.Users)
		}
	case models.UsersUpdated:
		task = func(context.Context) error {
			return o.emitter.Emit(models.WireUsersUpdated, models.NewUsersList(e.Users), models.ToRoom(config.DefaultRoomID))
		}
	default:
		return nil
	}

	name := evt.Type()
	o.log.Debug("Broadcast scheduled", "event", name)
	o.pool.Go(func(ctx context.Context) error {
		if err := task(ctx); err != nil {
			return fmt.Errorf("broadcast %s: %w", name, err)
		}
		return nil
	})
	return nil
}

func (o *RealtimeObserver) presence(event string, user models.User, users []models.User) error {
	room := models.ToRoom(config.DefaultRoomID)
	return errors.Join(
		o.emitter.Emit(event, models.PresencePayload{
			User:       models.Summarize(user),
			UsersCount: len(users),
		}, room),
		o.emitter.Emit(models.WireUsersList, models.NewUsersList(users), room),
	)
}
