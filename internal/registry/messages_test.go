package registry_test

import (
	"fmt"
	"testing"
	"time"

	"groupchat/backend/internal/models"
	"groupchat/backend/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns base, base+1s, base+2s, ... on successive calls.
func steppingClock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		ts := base.Add(time.Duration(n) * time.Second)
		n++
		return ts
	}
}

func TestCreateMessage(t *testing.T) {
	// Arrange
	shadow := newMockShadow()
	store := registry.NewMessageStore(shadow)

	// Act
	m := store.CreateMessage("u1", "Ana", "hola", "")

	// Assert
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "general", m.RoomID)
	assert.Equal(t, models.MessageTypeText, m.MessageType)
	assert.Equal(t, "Ana", m.UserName)
	got, ok := store.GetMessage(m.ID)
	require.True(t, ok)
	assert.Equal(t, m, got)
	shadow.AssertCalled(t, "SaveMessage", m)
}

func TestGetMessagesByRoom_LastNAscending(t *testing.T) {
	// Arrange
	store := registry.NewMessageStore(nil, registry.WithClock(steppingClock(time.Now())))
	for i := 0; i < 5; i++ {
		store.CreateMessage("u1", "Ana", fmt.Sprintf("m%d", i), "general")
		store.CreateMessage("u2", "Bo", fmt.Sprintf("other%d", i), "random")
	}

	// Act
	got := store.GetMessagesByRoom("general", 3)

	// Assert
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m2", "m3", "m4"}, []string{got[0].Content, got[1].Content, got[2].Content})
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.Before(got[i-1].Timestamp))
	}
}

func TestGetMessagesByRoom_EdgeCases(t *testing.T) {
	store := registry.NewMessageStore(nil)
	store.CreateMessage("u1", "Ana", "hi", "general")

	assert.Empty(t, store.GetMessagesByRoom("unknown", 10))
	assert.Empty(t, store.GetMessagesByRoom("general", 0))
	assert.Empty(t, store.GetMessagesByRoom("general", -1))
	assert.Len(t, store.GetMessagesByRoom("general", 50), 1)
}

func TestGetRecentMessages_Descending(t *testing.T) {
	store := registry.NewMessageStore(nil, registry.WithClock(steppingClock(time.Now())))
	store.CreateMessage("u1", "Ana", "first", "general")
	store.CreateMessage("u1", "Ana", "second", "random")
	store.CreateMessage("u1", "Ana", "third", "general")

	got := store.GetRecentMessages(2)

	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Empty(t, store.GetRecentMessages(0))
}

func TestCreateMessage_TimestampsNeverGoBackwards(t *testing.T) {
	base := time.Now()
	times := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	store := registry.NewMessageStore(nil, registry.WithClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	}))

	a := store.CreateMessage("u1", "Ana", "a", "general")
	b := store.CreateMessage("u1", "Ana", "b", "general")
	c := store.CreateMessage("u1", "Ana", "c", "general")

	assert.Equal(t, a.Timestamp, b.Timestamp)
	assert.True(t, c.Timestamp.After(b.Timestamp))
	got := store.GetMessagesByRoom("general", 10)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Content, got[1].Content, got[2].Content})
}

func TestDeleteMessage(t *testing.T) {
	store := registry.NewMessageStore(nil)
	m := store.CreateMessage("u1", "Ana", "bye", "general")
	keep := store.CreateMessage("u1", "Ana", "stay", "general")

	assert.True(t, store.DeleteMessage(m.ID))
	assert.False(t, store.DeleteMessage(m.ID))

	_, ok := store.GetMessage(m.ID)
	assert.False(t, ok)
	got := store.GetMessagesByRoom("general", 10)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)
	assert.Len(t, store.GetRecentMessages(10), 1)
}
