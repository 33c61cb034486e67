package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillonco/RobertaRoyale/internal/server/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	sm := NewManager(nil)
	t.Cleanup(sm.Stop)
	return sm
}

func newTestStore(t *testing.T) *storage.RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestBind_New(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	s := sm.Bind("p1", "Ada")

	require.NotNil(t, s)
	assert.Equal(t, "p1", s.PlayerID)
	assert.Equal(t, "Ada", s.PlayerName)
	assert.True(t, sm.IsOnline("p1"))
}

func TestBind_Existing_KeepsRoom(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	sm.Bind("p1", "Ada")
	sm.SetRoom("p1", "ABC123")
	sm.SetOffline("p1")

	// Reconnecting keeps the room binding and restores online status
	s := sm.Bind("p1", "")
	assert.Equal(t, "ABC123", s.RoomCode)
	assert.Equal(t, "Ada", s.PlayerName)
	assert.True(t, sm.IsOnline("p1"))
}

func TestOfflineOnline(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	sm.Bind("p1", "Ada")

	sm.SetOffline("p1")
	assert.False(t, sm.IsOnline("p1"))

	s := sm.Get("p1")
	require.NotNil(t, s)
	assert.False(t, s.DisconnectedAt.IsZero())

	sm.SetOnline("p1")
	assert.True(t, sm.IsOnline("p1"))
	assert.True(t, sm.Get("p1").DisconnectedAt.IsZero())
}

func TestRoomBinding(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	sm.Bind("p1", "Ada")

	assert.Empty(t, sm.RoomOf("p1"))
	sm.SetRoom("p1", "ABC123")
	assert.Equal(t, "ABC123", sm.RoomOf("p1"))
	sm.SetRoom("p1", "")
	assert.Empty(t, sm.RoomOf("p1"))

	// Unknown players have no room
	assert.Empty(t, sm.RoomOf("ghost"))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	sm.Bind("p1", "Ada")
	sm.Delete("p1")

	assert.Nil(t, sm.Get("p1"))
	assert.False(t, sm.IsOnline("p1"))
}

func TestWriteThrough_MirrorsMutations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sm := NewManager(store)
	t.Cleanup(sm.Stop)
	ctx := context.Background()

	sm.Bind("p1", "Ada")
	require.Eventually(t, func() bool {
		data, err := store.LoadSession(ctx, "p1")
		return err == nil && data != nil && data.PlayerName == "Ada" && data.IsOnline
	}, time.Second, 10*time.Millisecond)

	sm.SetRoom("p1", "ABC123")
	require.Eventually(t, func() bool {
		data, err := store.LoadSession(ctx, "p1")
		return err == nil && data != nil && data.RoomCode == "ABC123"
	}, time.Second, 10*time.Millisecond)

	sm.Delete("p1")
	require.Eventually(t, func() bool {
		data, err := store.LoadSession(ctx, "p1")
		return err == nil && data == nil
	}, time.Second, 10*time.Millisecond)
}

func TestBind_RestoresNameFromStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.SaveSession(context.Background(), &storage.PlayerSessionData{
		PlayerID:   "p1",
		PlayerName: "Roberta",
	}))

	// A fresh manager stands in for a restarted server
	sm := NewManager(store)
	t.Cleanup(sm.Stop)

	s := sm.Bind("p1", "")
	require.NotNil(t, s)
	assert.Equal(t, "Roberta", s.PlayerName)

	// A name on the wire still wins over the stored one
	sm2 := NewManager(store)
	t.Cleanup(sm2.Stop)
	assert.Equal(t, "Ada", sm2.Bind("p1", "Ada").PlayerName)
}

func TestCleanup_ExpiresStaleSessions(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t)
	sm.Bind("stale", "Old")
	sm.Bind("fresh", "New")
	sm.Bind("online", "Here")

	// Backdate the stale session past the expiry window
	sm.SetOffline("stale")
	sm.Get("stale").DisconnectedAt = time.Now().Add(-sessionExpireTime - time.Minute)
	sm.SetOffline("fresh")

	sm.cleanup()

	assert.Nil(t, sm.Get("stale"))
	assert.NotNil(t, sm.Get("fresh"))
	assert.NotNil(t, sm.Get("online"))
}
