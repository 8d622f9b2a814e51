package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"groupchat/backend/internal/models"
	"groupchat/backend/internal/registry"
	"groupchat/backend/internal/service"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Notify(ctx context.Context, evt models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) all() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

type fixture struct {
	svc   *service.ChatService
	pub   *recordingPublisher
	rooms *registry.RoomStore
	users *registry.UserStore
}

func newFixture() fixture {
	users := registry.NewUserStore(nil)
	messages := registry.NewMessageStore(nil)
	rooms := registry.NewRoomStore(nil)
	pub := &recordingPublisher{}
	svc := service.NewChatService(users, messages, rooms, pub, logs.GetLoggerFromLevel(slog.LevelDebug))
	return fixture{svc: svc, pub: pub, rooms: rooms, users: users}
}

func names(users []models.User) []string {
	return lo.Map(users, func(u models.User, _ int) string { return u.Name })
}

func TestChatScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Alice joins
	alice := f.svc.CreateUser(ctx, "Alice", "sid-a")
	assert.Equal(t, []string{"Alice"}, names(f.svc.ListActiveUsers()))

	// Bob joins
	bob := f.svc.CreateUser(ctx, "Bob", "sid-b")
	assert.Equal(t, []string{"Alice", "Bob"}, names(f.svc.ListActiveUsers()))
	events := f.pub.all()
	require.Len(t, events, 2)
	joined, ok := events[1].(models.UserJoined)
	require.True(t, ok)
	assert.Equal(t, bob.ID, joined.User.ID)
	assert.Equal(t, []string{"Alice", "Bob"}, names(joined.Users))

	// Alice says hi
	msg, ok := f.svc.SendMessage(ctx, alice.ID, "hi", "general")
	require.True(t, ok)
	events = f.pub.all()
	require.Len(t, events, 3)
	sent, ok := events[2].(models.MessageSent)
	require.True(t, ok)
	assert.Equal(t, "hi", sent.Message.Content)
	assert.Equal(t, msg.ID, sent.Message.ID)
	assert.Equal(t, "general", sent.RoomID)
	assert.Equal(t, []string{"Alice", "Bob"}, names(sent.Users))

	// Alice disconnects
	left, ok := f.svc.Disconnect(ctx, "sid-a")
	require.True(t, ok)
	assert.Equal(t, alice.ID, left.ID)
	assert.Equal(t, []string{"Bob"}, names(f.svc.ListActiveUsers()))
	events = f.pub.all()
	require.Len(t, events, 4)
	userLeft, ok := events[3].(models.UserLeft)
	require.True(t, ok)
	assert.Equal(t, alice.ID, userLeft.User.ID)
	assert.False(t, userLeft.User.IsActive)
	assert.Equal(t, []string{"Bob"}, names(userLeft.Users))

	// Recent history
	recent := f.svc.GetRecentMessages(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "hi", recent[0].Content)
}

func TestCreateUser_FreshIDsAndRoster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		u := f.svc.CreateUser(ctx, "same name", fmt.Sprintf("sid-%d", i))
		assert.False(t, seen[u.ID])
		seen[u.ID] = true
		assert.True(t, lo.ContainsBy(f.svc.ListActiveUsers(), func(x models.User) bool { return x.ID == u.ID }))
	}

	general, ok := f.svc.GetRoom("general")
	require.True(t, ok)
	assert.Len(t, general.Users, 20)
}

func TestSendMessage_UnknownUserPublishesNothing(t *testing.T) {
	f := newFixture()

	msg, ok := f.svc.SendMessage(context.Background(), "ghost", "hello", "general")

	assert.False(t, ok)
	assert.Empty(t, msg.ID)
	assert.Empty(t, f.pub.all())
	assert.Empty(t, f.svc.GetRecentMessages(10))
}

func TestSendMessage_DefaultsRoomAndUnknownRoomHasNoMembers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")

	msg, ok := f.svc.SendMessage(ctx, u.ID, "hello", "")
	require.True(t, ok)
	assert.Equal(t, "general", msg.RoomID)

	_, ok = f.svc.SendMessage(ctx, u.ID, "into the void", "nowhere")
	require.True(t, ok)
	events := f.pub.all()
	sent := events[len(events)-1].(models.MessageSent)
	assert.Equal(t, "nowhere", sent.RoomID)
	assert.Empty(t, sent.Users)
}

func TestDisconnect_RemovesFromEveryRoom(t *testing.T) {
	// Arrange
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")
	f.svc.CreateRoom("Random")
	require.True(t, f.svc.JoinRoom("random", u.ID))

	// Act
	_, ok := f.svc.Disconnect(ctx, "sid-1")

	// Assert
	require.True(t, ok)
	_, found := f.svc.GetUserByConnection("sid-1")
	assert.False(t, found)
	assert.Empty(t, f.svc.ListActiveUsers())
	for _, r := range f.svc.ListRooms() {
		assert.False(t, r.HasUser(u.ID), "still in room %s", r.ID)
	}
	kept, found := f.svc.GetUser(u.ID)
	require.True(t, found, "users are deactivated, not removed")
	assert.False(t, kept.IsActive)
}

func TestDisconnect_UnknownHandle(t *testing.T) {
	f := newFixture()

	_, ok := f.svc.Disconnect(context.Background(), "missing")

	assert.False(t, ok)
	assert.Empty(t, f.pub.all())
}

func TestDisconnect_Twice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.CreateUser(ctx, "Ana", "sid-1")

	_, first := f.svc.Disconnect(ctx, "sid-1")
	_, second := f.svc.Disconnect(ctx, "sid-1")

	assert.True(t, first)
	assert.False(t, second)
	assert.Len(t, f.pub.all(), 2)
}

func TestUpdateConnection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")
	_, _ = f.svc.Disconnect(ctx, "sid-1")

	ok := f.svc.UpdateConnection(ctx, u.ID, "sid-2")

	require.True(t, ok)
	events := f.pub.all()
	updated, isUpdate := events[len(events)-1].(models.UsersUpdated)
	require.True(t, isUpdate)
	assert.Equal(t, []string{"Ana"}, names(updated.Users))
	general, _ := f.svc.GetRoom("general")
	assert.True(t, general.HasUser(u.ID))

	assert.False(t, f.svc.UpdateConnection(ctx, "ghost", "sid-3"))
	assert.Len(t, f.pub.all(), len(events))
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")

	assert.True(t, f.svc.DeleteUser(ctx, u.ID))
	assert.False(t, f.svc.DeleteUser(ctx, u.ID))

	_, ok := f.svc.GetUser(u.ID)
	assert.False(t, ok)
	general, _ := f.svc.GetRoom("general")
	assert.False(t, general.HasUser(u.ID))
	events := f.pub.all()
	require.Len(t, events, 2)
	assert.IsType(t, models.UsersUpdated{}, events[1])
}

func TestRoomOperations_PublishNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")
	before := len(f.pub.all())

	room := f.svc.CreateRoom("Off Topic")
	assert.Equal(t, "off_topic", room.ID)
	assert.True(t, f.svc.JoinRoom("off_topic", u.ID))
	assert.True(t, f.svc.JoinRoom("off_topic", u.ID))
	assert.False(t, f.svc.JoinRoom("off_topic", "ghost"))
	assert.False(t, f.svc.JoinRoom("nowhere", u.ID))
	assert.True(t, f.svc.LeaveRoom("off_topic", u.ID))
	assert.True(t, f.svc.DeactivateRoom("off_topic"))
	assert.False(t, f.svc.JoinRoom("off_topic", u.ID), "inactive rooms cannot be joined")
	assert.False(t, f.svc.DeactivateRoom("general"))

	assert.Len(t, f.pub.all(), before)
}

func TestDeleteMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.svc.CreateUser(ctx, "Ana", "sid-1")
	msg, _ := f.svc.SendMessage(ctx, u.ID, "oops", "general")
	before := len(f.pub.all())

	assert.True(t, f.svc.DeleteMessage(msg.ID))
	assert.False(t, f.svc.DeleteMessage(msg.ID))
	assert.Empty(t, f.svc.GetMessagesByRoom("general", 10))
	assert.Len(t, f.pub.all(), before)
}

// TestExactlyOneEventPerMutation runs mutations concurrently and checks the
// event count and room membership afterwards.
func TestExactlyOneEventPerMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	const n = 40

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("sid-%d", i)
			u := f.svc.CreateUser(ctx, fmt.Sprintf("user-%d", i), sid)
			f.svc.SendMessage(ctx, u.ID, "hello", "general")
			if i%2 == 0 {
				f.svc.Disconnect(ctx, sid)
			}
		}(i)
	}
	wg.Wait()

	counts := lo.CountValuesBy(f.pub.all(), func(e models.Event) models.EventType { return e.Type() })
	assert.Equal(t, n, counts[models.EventUserJoined])
	assert.Equal(t, n, counts[models.EventMessageSent])
	assert.Equal(t, n/2, counts[models.EventUserLeft])
	assert.Len(t, f.svc.ListActiveUsers(), n/2)

	general, _ := f.svc.GetRoom("general")
	assert.Len(t, general.Users, n/2)
	ids := lo.Map(general.Users, func(u models.User, _ int) string { return u.ID })
	assert.Len(t, lo.Uniq(ids), len(ids))
}

// TestEventsMatchMutationOrder checks that each UserJoined roster grows by one,
// which only holds if events are published in mutation order.
func TestEventsMatchMutationOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.svc.CreateUser(ctx, fmt.Sprintf("u%d", i), fmt.Sprintf("sid-%d", i))
		}(i)
	}
	wg.Wait()

	for i, evt := range f.pub.all() {
		joined := evt.(models.UserJoined)
		assert.Len(t, joined.Users, i+1)
		assert.Equal(t, joined.User.ID, joined.Users[i].ID)
	}
}
