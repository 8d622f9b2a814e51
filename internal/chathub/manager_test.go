package chathub_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"groupchat/backend/internal/chathub"
	"groupchat/backend/internal/models"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu           sync.Mutex
	connected    []string
	disconnected []string
	frames       []models.Frame
}

func (h *recordingHandler) OnConnect(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = append(h.connected, id)
}

func (h *recordingHandler) OnDisconnect(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected = append(h.disconnected, id)
}

func (h *recordingHandler) HandleFrame(ctx context.Context, id string, frame models.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, frame)
}

func newHub() (*chathub.ManagerService, *recordingHandler) {
	hub := chathub.NewManagerService(logs.GetLoggerFromLevel(slog.LevelDebug))
	h := &recordingHandler{}
	hub.SetHandler(h)
	return hub, h
}

func TestManager_RegisterUnregister(t *testing.T) {
	// Arrange
	hub, h := newHub()
	ctx := context.Background()
	clientA := newMockClient("conn_A", 4)

	// Act
	hub.Register(ctx, clientA)

	// Assert
	assert.Contains(t, hub.Clients, "conn_A")
	assert.Equal(t, []string{"conn_A"}, h.connected)

	hub.Unregister(ctx, "conn_A")
	hub.Unregister(ctx, "conn_A")
	assert.NotContains(t, hub.Clients, "conn_A")
	assert.True(t, clientA.IsClosed())
	assert.Equal(t, []string{"conn_A"}, h.disconnected, "disconnect reported once")
}

func TestManager_EmitToConnection(t *testing.T) {
	hub, _ := newHub()
	ctx := context.Background()
	clientA := newMockClient("conn_A", 4)
	clientB := newMockClient("conn_B", 4)
	hub.Register(ctx, clientA)
	hub.Register(ctx, clientB)

	require.NoError(t, hub.Emit(models.WireConnected, models.ConnectedPayload{Message: "hi"}, models.ToConnection("conn_A")))

	got := clientA.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, models.WireConnected, got[0].Event)
	assert.Empty(t, clientB.Drain())

	err := hub.Emit(models.WireConnected, nil, models.ToConnection("ghost"))
	assert.ErrorIs(t, err, chathub.ErrUnknownConnection)
}

func TestManager_EmitToRoom(t *testing.T) {
	// Arrange
	hub, _ := newHub()
	ctx := context.Background()
	clientA := newMockClient("conn_A", 4)
	clientB := newMockClient("conn_B", 4)
	clientC := newMockClient("conn_C", 4)
	for _, c := range []*MockClient{clientA, clientB, clientC} {
		hub.Register(ctx, c)
	}
	require.NoError(t, hub.EnterRoom("conn_A", "general"))
	require.NoError(t, hub.EnterRoom("conn_B", "general"))
	require.NoError(t, hub.EnterRoom("conn_C", "random"))

	// Act
	require.NoError(t, hub.Emit(models.WireNewMessage, models.Message{Content: "hello"}, models.ToRoom("general")))

	// Assert
	assert.Len(t, clientA.Drain(), 1)
	assert.Len(t, clientB.Drain(), 1)
	assert.Empty(t, clientC.Drain())
	assert.Equal(t, 2, hub.RoomSize("general"))

	hub.LeaveRoom("conn_B", "general")
	require.NoError(t, hub.Emit(models.WireNewMessage, models.Message{}, models.ToRoom("general")))
	assert.Len(t, clientA.Drain(), 1)
	assert.Empty(t, clientB.Drain())
	assert.NoError(t, hub.Emit(models.WireNewMessage, models.Message{}, models.ToRoom("empty")))
}

func TestManager_EnterRoomUnknownConnection(t *testing.T) {
	hub, _ := newHub()

	err := hub.EnterRoom("ghost", "general")

	assert.ErrorIs(t, err, chathub.ErrUnknownConnection)
	assert.Equal(t, 0, hub.RoomSize("general"))
}

func TestManager_UnregisterLeavesRooms(t *testing.T) {
	hub, _ := newHub()
	ctx := context.Background()
	hub.Register(ctx, newMockClient("conn_A", 4))
	require.NoError(t, hub.EnterRoom("conn_A", "general"))

	hub.Unregister(ctx, "conn_A")

	assert.Equal(t, 0, hub.RoomSize("general"))
}

func TestManager_DropsSlowClient(t *testing.T) {
	// Arrange
	hub, h := newHub()
	ctx := context.Background()
	slow := newMockClient("slow", 1)
	fast := newMockClient("fast", 8)
	hub.Register(ctx, slow)
	hub.Register(ctx, fast)
	require.NoError(t, hub.EnterRoom("slow", "general"))
	require.NoError(t, hub.EnterRoom("fast", "general"))

	// Act
	require.NoError(t, hub.Emit(models.WireUsersList, nil, models.ToRoom("general")))
	require.NoError(t, hub.Emit(models.WireUsersList, nil, models.ToRoom("general")))

	// Assert
	assert.True(t, slow.IsClosed())
	assert.NotContains(t, hub.Clients, "slow")
	assert.Equal(t, []string{"slow"}, h.disconnected)
	assert.Len(t, fast.Drain(), 2)
}

func TestManager_Dispatch(t *testing.T) {
	hub, h := newHub()

	hub.Dispatch(context.Background(), "conn_A", models.Frame{Event: models.WireGetUsers})

	require.Len(t, h.frames, 1)
	assert.Equal(t, models.WireGetUsers, h.frames[0].Event)
}

func TestManager_Close(t *testing.T) {
	hub, h := newHub()
	ctx := context.Background()
	clientA := newMockClient("conn_A", 4)
	hub.Register(ctx, clientA)

	hub.Close()

	assert.True(t, clientA.IsClosed())
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.Empty(t, h.disconnected)

	late := newMockClient("late", 4)
	hub.Register(ctx, late)
	assert.True(t, late.IsClosed())
	assert.Equal(t, 0, hub.ConnectionCount())
}
