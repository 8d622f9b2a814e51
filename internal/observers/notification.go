// Package observers holds the consumers attached to the chat event subject.
package observers

import (
	"context"
	"fmt"
	"log/slog"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/localization"
	"groupchat/backend/internal/models"
	"groupchat/backend/internal/notify"
	"groupchat/backend/internal/worker"
)

// NotificationObserver turns chat events into per-user notifications. Every
// delivery runs on the observer's pool so a slow sink never stalls publishing.
type NotificationObserver struct {
	notifier notify.Notifier
	pool     *worker.Pool
	tr       localization.Translator
	lang     string
	log      *slog.Logger
}

func NewNotificationObserver(
	notifier notify.Notifier,
	pool *worker.Pool,
	tr localization.Translator,
	lang string,
	log *slog.Logger,
) *NotificationObserver {
	return &NotificationObserver{notifier: notifier, pool: pool, tr: tr, lang: lang, log: log}
}

func (o *NotificationObserver) Handle(ctx context.Context, evt models.Event) error {
	switch e := evt.(type) {
	case models.MessageSent:
		o.onMessageSent(e)
	case models.UserJoined:
		o.onUserJoined(e)
	case models.UserLeft:
		o.onUserLeft(e)
	}
	return nil
}

func (o *NotificationObserver) onMessageSent(e models.MessageSent) {
	title := o.tr.Format(o.lang, "notification.new_message.title", e.Message.UserName)
	body := Truncate(e.Message.Content, config.NotificationBodyLimit)
	for _, u := range e.Users {
		if u.ID == e.Message.UserID {
			continue
		}
		o.send(models.Notification{
			TargetUserID: u.ID,
			Title:        title,
			Body:         body,
			MessageID:    e.Message.ID,
			Data: map[string]string{
				"type":        "new_message",
				"room_id":     e.RoomID,
				"sender_name": e.Message.UserName,
			},
		})
	}
}

func (o *NotificationObserver) onUserJoined(e models.UserJoined) {
	o.notifyPresence(e.User, e.Users, "user_joined")
}

func (o *NotificationObserver) onUserLeft(e models.UserLeft) {
	o.notifyPresence(e.User, e.Users, "user_left")
}

func (o *NotificationObserver) notifyPresence(subject models.User, recipients []models.User, kind string) {
	title := o.tr.GetString(o.lang, "notification."+kind+".title")
	body := o.tr.Format(o.lang, "notification."+kind+".body", subject.Name)
	for _, u := range recipients {
		if u.ID == subject.ID {
			continue
		}
		o.send(models.Notification{
			TargetUserID: u.ID,
			Title:        title,
			Body:         body,
			Data: map[string]string{
				"type":      kind,
				"user_name": subject.Name,
				"user_id":   subject.ID,
			},
		})
	}
}

func (o *NotificationObserver) send(n models.Notification) {
	o.pool.Go(func(ctx context.Context) error {
		if err := o.notifier.SendNotification(ctx, n); err != nil {
			return fmt.Errorf("notify user %s: %w", n.TargetUserID, err)
		}
		return nil
	})
}

// Truncate cuts s to limit characters and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
