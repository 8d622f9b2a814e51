// Package gateway maps transport events (connect, join, send, list, disconnect)
// onto chat service calls and replies directly to the requesting connection.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"groupchat/backend/internal/config"
	"groupchat/backend/internal/localization"
	"groupchat/backend/internal/models"
)

var (
	ErrAlreadyJoined = errors.New("Already joined")
	ErrUserNotFound  = errors.New("User not found")
	ErrSendFailed    = errors.New("Failed to send message")
	ErrInvalidFrame  = errors.New("Invalid message format")
	ErrUnknownEvent  = errors.New("Unknown event")
)

// ChatService is the part of the chat service the gateway drives.
type ChatService interface {
	CreateUser(ctx context.Context, name, connectionID string) models.User
	SendMessage(ctx context.Context, userID, content, roomID string) (models.Message, bool)
	Disconnect(ctx context.Context, connectionID string) (models.User, bool)
	GetUserByConnection(connectionID string) (models.User, bool)
	ListActiveUsers() []models.User
	GetMessagesByRoom(roomID string, limit int) []models.Message
}

// Transport is the outbound side of the realtime connection layer.
type Transport interface {
	Emit(event string, payload any, target models.Target) error
	EnterRoom(connectionID, roomID string) error
}

type Gateway struct {
	chat        ChatService
	transport   Transport
	tr          localization.Translator
	lang        string
	recentLimit int
	log         *slog.Logger
}

func NewGateway(
	chat ChatService,
	transport Transport,
	tr localization.Translator,
	lang string,
	recentLimit int,
	log *slog.Logger,
) *Gateway {
	return &Gateway{
		chat:        chat,
		transport:   transport,
		tr:          tr,
		lang:        lang,
		recentLimit: recentLimit,
		log:         log,
	}
}

func (g *Gateway) OnConnect(ctx context.Context, connectionID string) {
	g.log.Info("Client connected", "connection_id", connectionID)
	g.reply(connectionID, models.WireConnected, models.ConnectedPayload{
		Message: g.tr.GetString(g.lang, "chat.connected"),
	})
}

func (g *Gateway) OnDisconnect(ctx context.Context, connectionID string) {
	user, ok := g.chat.Disconnect(ctx, connectionID)
	if !ok {
		g.log.Debug("Anonymous client disconnected", "connection_id", connectionID)
		return
	}
	g.log.Info("Client disconnected", "connection_id", connectionID, "user_id", user.ID)
	g.broadcastRoster()
}

// OnJoin creates a user for the connection and sends the joiner its welcome,
// the roster and the recent history of the default room.
func (g *Gateway) OnJoin(ctx context.Context, connectionID, name string) {
	req := models.JoinRequest{Name: name}
	req.Normalize()
	if err := req.Validate(); err != nil {
		g.replyError(connectionID, err)
		return
	}
	if _, bound := g.chat.GetUserByConnection(connectionID); bound {
		g.replyError(connectionID, ErrAlreadyJoined)
		return
	}

	user := g.chat.CreateUser(ctx, req.Name, connectionID)
	if err := g.transport.EnterRoom(connectionID, config.DefaultRoomID); err != nil {
		g.log.Warn("Could not subscribe connection to default room", "connection_id", connectionID, "error", err)
	}

	users := g.chat.ListActiveUsers()
	g.reply(connectionID, models.WireJoinedChat, models.JoinedChatPayload{
		User:    models.Summarize(user),
		Message: g.tr.Format(g.lang, "chat.welcome", user.Name),
	})
	g.reply(connectionID, models.WireUsersList, models.NewUsersList(users))
	g.emit(models.WireUsersList, models.NewUsersList(users), models.ToRoom(config.DefaultRoomID))
	g.reply(connectionID, models.WireRecentMessages, models.RecentMessagesPayload{
		Messages: g.chat.GetMessagesByRoom(config.DefaultRoomID, g.recentLimit),
	})
}

// OnSend posts a message as the user bound to the connection. The broadcast
// itself comes from the realtime observer.
func (g *Gateway) OnSend(ctx context.Context, connectionID, content, roomID string) {
	req := models.SendMessageRequest{Content: content, RoomID: roomID}
	req.Normalize()
	if err := req.Validate(); err != nil {
		g.replyError(connectionID, err)
		return
	}

	user, ok := g.chat.GetUserByConnection(connectionID)
	if !ok {
		g.replyError(connectionID, ErrUserNotFound)
		return
	}
	if _, ok := g.chat.SendMessage(ctx, user.ID, req.Content, req.RoomID); !ok {
		g.replyError(connectionID, ErrSendFailed)
	}
}

func (g *Gateway) OnListUsers(ctx context.Context, connectionID string) {
	g.reply(connectionID, models.WireUsersList, models.NewUsersList(g.chat.ListActiveUsers()))
}

// HandleFrame decodes an inbound frame and routes it by event name.
func (g *Gateway) HandleFrame(ctx context.Context, connectionID string, frame models.Frame) {
	switch frame.Event {
	case models.WireJoinChat:
		var req models.JoinRequest
		if !g.decode(connectionID, frame, &req) {
			return
		}
		g.OnJoin(ctx, connectionID, req.Name)
	case models.WireSendMessage:
		var req models.SendMessageRequest
		if !g.decode(connectionID, frame, &req) {
			return
		}
		g.OnSend(ctx, connectionID, req.Content, req.RoomID)
	case models.WireGetUsers:
		g.OnListUsers(ctx, connectionID)
	default:
		g.log.Debug("Unknown event", "connection_id", connectionID, "event", frame.Event)
		g.replyError(connectionID, ErrUnknownEvent)
	}
}

func (g *Gateway) decode(connectionID string, frame models.Frame, dst any) bool {
	if len(frame.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(frame.Data, dst); err != nil {
		g.log.Debug("Undecodable payload", "connection_id", connectionID, "event", frame.Event, "error", err)
		g.replyError(connectionID, ErrInvalidFrame)
		return false
	}
	return true
}

func (g *Gateway) broadcastRoster() {
	g.emit(models.WireUsersList, models.NewUsersList(g.chat.ListActiveUsers()), models.ToRoom(config.DefaultRoomID))
}

func (g *Gateway) replyError(connectionID string, err error) {
	g.reply(connectionID, models.WireError, models.ErrorPayload{Message: err.Error()})
}

func (g *Gateway) reply(connectionID, event string, payload any) {
	g.emit(event, payload, models.ToConnection(connectionID))
}

func (g *Gateway) emit(event string, payload any, target models.Target) {
	if err := g.transport.Emit(event, payload, target); err != nil {
		g.log.Warn("Emit failed", "event", event, "error", err)
	}
}
