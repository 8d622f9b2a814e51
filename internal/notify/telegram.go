package notify

import (
	"context"
	"fmt"
	"strings"

	"groupchat/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotSender is the part of *tgbotapi.BotAPI the notifier needs.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards notifications to one Telegram chat.
type TelegramNotifier struct {
	bot    BotSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramNotifierWithBot(bot, chatID), nil
}

func NewTelegramNotifierWithBot(bot BotSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) SendNotification(ctx context.Context, notification models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, formatNotification(notification))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram notification for user %s: %w", notification.TargetUserID, err)
	}
	return nil
}

// formatNotification renders plain text so user content needs no escaping.
func formatNotification(n models.Notification) string {
	var b strings.Builder
	b.WriteString(n.Title)
	if n.Body != "" {
		b.WriteString("\n")
		b.WriteString(n.Body)
	}
	fmt.Fprintf(&b, "\n[to %s]", n.TargetUserID)
	return b.String()
}
