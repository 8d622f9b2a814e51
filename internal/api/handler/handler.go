package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"groupchat/backend/internal/chathub"
	"groupchat/backend/internal/config"
	"groupchat/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	serviceName    = "Group Chat API"
	serviceVersion = "1.0.0"
)

var ErrInvalidLimit = errors.New("limit must be between 1 and 100")

// ChatAPI is the chat service surface exposed over REST.
type ChatAPI interface {
	CreateUser(ctx context.Context, name, connectionID string) models.User
	GetUser(userID string) (models.User, bool)
	ListActiveUsers() []models.User
	DeleteUser(ctx context.Context, userID string) bool

	SendMessage(ctx context.Context, userID, content, roomID string) (models.Message, bool)
	GetMessagesByRoom(roomID string, limit int) []models.Message
	GetRecentMessages(limit int) []models.Message
	DeleteMessage(messageID string) bool

	CreateRoom(name string) models.Room
	GetRoom(roomID string) (models.Room, bool)
	ListRooms() []models.Room
	JoinRoom(roomID, userID string) bool
	LeaveRoom(roomID, userID string) bool
	DeactivateRoom(roomID string) bool
}

// Handler serves the REST API and the websocket endpoint.
type Handler struct {
	Chat ChatAPI
	Hub  *chathub.ManagerService
	log  *slog.Logger
}

func NewHandler(chat ChatAPI, hub *chathub.ManagerService, log *slog.Logger) *Handler {
	return &Handler{Chat: chat, Hub: hub, log: log}
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.DELETE("/:id", h.DeleteUser)

	messages := api.Group("/messages")
	messages.POST("", h.CreateMessage)
	messages.GET("/room/:room_id", h.GetMessagesByRoom)
	messages.GET("/recent", h.GetRecentMessages)
	messages.DELETE("/:id", h.DeleteMessage)

	rooms := api.Group("/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.GET("", h.ListRooms)
	rooms.GET("/:id", h.GetRoom)
	rooms.DELETE("/:id", h.DeactivateRoom)
	rooms.POST("/:id/join", h.JoinRoom)
	rooms.POST("/:id/leave", h.LeaveRoom)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": serviceName, "version": serviceVersion})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     serviceName,
		"version":     serviceVersion,
		"connections": h.Hub.ConnectionCount(),
	})
}

type validatable interface {
	Normalize()
	Validate() error
}

// bindRequest decodes the JSON body into req, trims it and validates the
// trimmed values.
func bindRequest(c *gin.Context, req validatable) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.ErrInvalidRequest
		}
	}
	req.Normalize()
	return req.Validate()
}

// limitParam reads ?limit=, defaulting to 50 and accepting 1..100.
func limitParam(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return config.DefaultMessageLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > config.MaxMessageLimit {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
