// Package notify contains the sinks notifications are delivered to.
package notify

import (
	"context"
	"log/slog"

	"groupchat/backend/internal/models"
)

// Notifier delivers one notification to one recipient.
type Notifier interface {
	SendNotification(ctx context.Context, n models.Notification) error
}

// LogNotifier writes notifications to the log. It is the default sink when no
// external channel is configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendNotification(ctx context.Context, notification models.Notification) error {
	n.log.Info("Notification",
		"user_id", notification.TargetUserID,
		"title", notification.Title,
		"body", notification.Body,
		"type", notification.Data["type"])
	return nil
}
