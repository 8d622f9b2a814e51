package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groupchat/backend/internal/api/handler"
	"groupchat/backend/internal/chathub"
	"groupchat/backend/internal/config"
	"groupchat/backend/internal/events"
	"groupchat/backend/internal/gateway"
	"groupchat/backend/internal/localization"
	"groupchat/backend/internal/notify"
	"groupchat/backend/internal/observers"
	"groupchat/backend/internal/registry"
	"groupchat/backend/internal/service"
	"groupchat/backend/internal/storage"
	"groupchat/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: no .env file loaded")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	tr, err := localization.NewDefaultLocalizer()
	if err != nil {
		return fmt.Errorf("localization: %w", err)
	}

	// 2. Durable mirror (optional)
	var shadow registry.Shadow
	var persistPool *worker.Pool
	if cfg.PersistenceEnabled {
		store, closeStore, err := openStorage(cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()
		persistPool = worker.NewPool("persistence", 1, cfg.PersistenceQueueSize, log)
		shadow = storage.NewShadow(store, persistPool, log)
	}

	// 3. Registries, event subject and transport
	users := registry.NewUserStore(shadow)
	messages := registry.NewMessageStore(shadow)
	rooms := registry.NewRoomStore(shadow)

	subject := events.NewSubject(log)
	hub := chathub.NewManagerService(log)

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}
	notifyPool := worker.NewPool("notification", cfg.NotificationWorkers, cfg.NotificationQueueSize, log)
	realtimePool := worker.NewPool("realtime", cfg.RealtimeWorkers, cfg.RealtimeQueueSize, log)
	subject.Attach(observers.NewNotificationObserver(notifier, notifyPool, tr, cfg.NotificationLanguage, log))
	subject.Attach(observers.NewRealtimeObserver(hub, realtimePool, log))

	// 4. Chat service and gateway
	chat := service.NewChatService(users, messages, rooms, subject, log)
	hub.SetHandler(gateway.NewGateway(chat, hub, tr, cfg.NotificationLanguage, cfg.RecentMessagesOnJoin, log))

	// 5. HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	handler.NewHandler(chat, hub, log).Register(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", cfg.HTTPAddr, "persistence", cfg.PersistenceEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 6. Drain: stop accepting, drop clients, then flush the pools.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	hub.Close()

	pools := []*worker.Pool{realtimePool, notifyPool}
	if persistPool != nil {
		pools = append(pools, persistPool)
	}
	for _, p := range pools {
		if err := p.Shutdown(shutdownCtx); err != nil {
			log.Warn("Pool did not drain", "pool", p.Name(), "dropped", p.Dropped(), "error", err)
		}
	}

	log.Info("Program stopped cleanly")
	return nil
}

// openStorage connects Postgres, migrates it and attaches Redis presence when
// Redis answers. The returned func closes both.
func openStorage(cfg config.Config, log *slog.Logger) (*storage.Service, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, presence set disabled", "address", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		rdb = nil
	}

	store := storage.NewStorageService(db, rdb)
	if err := store.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database connection established, migrations complete")

	closeFn := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store, closeFn, nil
}

func newNotifier(cfg config.Config, log *slog.Logger) (notify.Notifier, error) {
	if !cfg.TelegramEnabled() {
		return notify.NewLogNotifier(log), nil
	}
	chatID, err := cfg.TelegramChat()
	if err != nil {
		return nil, err
	}
	n, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, chatID)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}
	log.Info("Telegram notifications enabled", "chat_id", chatID)
	return n, nil
}
