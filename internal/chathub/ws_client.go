package chathub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"groupchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

// WebSocketClient is a Client backed by a gorilla websocket connection.
type WebSocketClient struct {
	ConnectionID string
	Conn         *websocket.Conn
	Hub          *ManagerService
	Send         chan models.Envelope

	log       *slog.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(conn *websocket.Conn, hub *ManagerService, log *slog.Logger) *WebSocketClient {
	id := uuid.New().String()
	return &WebSocketClient{
		ConnectionID: id,
		Conn:         conn,
		Hub:          hub,
		Send:         make(chan models.Envelope, sendBufferSize),
		log:          log.With("connection_id", id),
	}
}

func (c *WebSocketClient) GetConnectionID() string                { return c.ConnectionID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops the write pump and the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	ctx := context.Background()
	defer func() {
		c.Hub.Unregister(ctx, c.ConnectionID)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected close", "error", err)
			}
			return
		}

		var frame models.Frame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Event == "" {
			c.log.Debug("Invalid frame", "error", err)
			_ = c.Hub.Emit(models.WireError, models.ErrorPayload{Message: "Invalid message format"}, models.ToConnection(c.ConnectionID))
			continue
		}
		c.Hub.Dispatch(ctx, c.ConnectionID, frame)
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(env); err != nil {
				c.log.Debug("Write failed", "event", env.Event, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
