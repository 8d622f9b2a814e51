package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  users                       list persisted users
  online                      list user ids in the presence set
  history <room_id> [limit]   print the last messages of a room
  delete-message <message_id> remove a persisted message`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal(config.ErrMissingDSN)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	var rdb *redis.Client
	if os.Args[1] == "online" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
	}
	storageSvc := storage.NewStorageService(db, rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "users":
		err = listUsers(ctx, storageSvc)
	case "online":
		err = listOnline(ctx, storageSvc)
	case "history":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin history <room_id> [limit]")
			os.Exit(1)
		}
		limit := config.DefaultMessageLimit
		if len(os.Args) > 3 {
			limit, err = strconv.Atoi(os.Args[3])
			if err != nil || limit < 1 {
				fmt.Println("Invalid limit. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		err = printHistory(ctx, storageSvc, os.Args[2], limit)
	case "delete-message":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-message <message_id>")
			os.Exit(1)
		}
		err = storageSvc.DeleteMessage(ctx, os.Args[2])
		if err == nil {
			fmt.Printf("Message %s has been deleted.\n", os.Args[2])
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}

	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("Not found")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func listUsers(ctx context.Context, s *storage.Service) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		seen := "-"
		if u.LastSeen != nil {
			seen = u.LastSeen.Format(time.RFC3339)
		}
		fmt.Printf("%s\t%s\tonline=%t\tactive=%t\tlast_seen=%s\n", u.ID, u.Name, u.IsOnline, u.IsActive, seen)
	}
	fmt.Printf("%d user(s)\n", len(users))
	return nil
}

func listOnline(ctx context.Context, s *storage.Service) error {
	ids, err := s.OnlineUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func printHistory(ctx context.Context, s *storage.Service, roomID string, limit int) error {
	history, err := s.GetChatHistory(ctx, roomID, limit)
	if err != nil {
		return err
	}
	for _, m := range history {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format(time.DateTime), m.UserName, m.Content)
	}
	return nil
}
