package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
)

var (
	ErrMissingDSN       = errors.New("DATABASE_DSN is required when persistence is enabled")
	ErrInvalidPoolSize  = errors.New("worker and queue sizes must be positive")
	ErrInvalidChatID    = errors.New("TELEGRAM_CHAT_ID must be an integer")
	ErrInvalidRecentWin = errors.New("RECENT_MESSAGES_ON_JOIN must not be negative")
)

// Config is decoded once at startup and threaded through constructors.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8000"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	PersistenceEnabled bool   `env:"PERSISTENCE_ENABLED,default=false"`
	DatabaseDSN        string `env:"DATABASE_DSN"`
	RedisAddr          string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB,default=0"`

	NotificationWorkers   int `env:"NOTIFICATION_WORKERS,default=4"`
	NotificationQueueSize int `env:"NOTIFICATION_QUEUE_SIZE,default=1024"`
	RealtimeWorkers       int `env:"REALTIME_WORKERS,default=1"`
	RealtimeQueueSize     int `env:"REALTIME_QUEUE_SIZE,default=1024"`
	PersistenceQueueSize  int `env:"PERSISTENCE_QUEUE_SIZE,default=4096"`

	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	NotificationLanguage string        `env:"NOTIFICATION_LANGUAGE,default=en"`
	RecentMessagesOnJoin int           `env:"RECENT_MESSAGES_ON_JOIN,default=20"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
}

// Load reads the process environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.PersistenceEnabled && c.DatabaseDSN == "" {
		return ErrMissingDSN
	}
	for _, n := range []int{
		c.NotificationWorkers, c.NotificationQueueSize,
		c.RealtimeWorkers, c.RealtimeQueueSize, c.PersistenceQueueSize,
	} {
		if n <= 0 {
			return ErrInvalidPoolSize
		}
	}
	if c.RecentMessagesOnJoin < 0 {
		return ErrInvalidRecentWin
	}
	if c.TelegramChatID != "" {
		if _, err := c.TelegramChat(); err != nil {
			return err
		}
	}
	return nil
}

// TelegramChat returns the numeric chat id the Telegram notifier posts to.
func (c Config) TelegramChat() (int64, error) {
	id, err := strconv.ParseInt(c.TelegramChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChatID, c.TelegramChatID)
	}
	return id, nil
}

// TelegramEnabled reports whether notifications should be forwarded to Telegram.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
