package room

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/config"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/server/storage"
	"github.com/dillonco/RobertaRoyale/internal/testutil"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	rm := NewManager(nil, config.GameConfig{
		WinningScore:    10,
		StickTheDealer:  true,
		AIDelayMS:       1,
		AIDelayJitterMS: 1,
		RoomTimeout:     30,
	})
	t.Cleanup(rm.Stop)
	return rm
}

func newClient(id, name string) *testutil.SimpleClient {
	return &testutil.SimpleClient{ID: id, Name: name}
}

// fillRoom seats three more humans alongside the creator.
func fillRoom(t *testing.T, rm *Manager, code string) []*testutil.SimpleClient {
	t.Helper()
	clients := make([]*testutil.SimpleClient, 0, 3)
	for i := 1; i <= 3; i++ {
		c := newClient(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
		_, err := rm.JoinRoom(c, code)
		require.NoError(t, err)
		clients = append(clients, c)
	}
	return clients
}

func TestCreateRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")

	room, err := rm.CreateRoom(creator)
	require.NoError(t, err)
	require.NotNil(t, room)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), room.Code)
	assert.Equal(t, room.Code, creator.GetRoom())
	assert.Same(t, room, rm.GetRoom(room.Code))
	assert.Same(t, room, rm.RoomOfPlayer("p0"))

	seat, ok := room.Game.SeatOf("p0")
	require.True(t, ok)
	assert.Equal(t, 0, seat)
}

func TestCreateRoom_UniqueCodes(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	codes := make(map[string]bool)
	for i := range 50 {
		room, err := rm.CreateRoom(newClient(fmt.Sprintf("c%d", i), "x"))
		require.NoError(t, err)
		assert.False(t, codes[room.Code], "duplicate code %s", room.Code)
		codes[room.Code] = true
	}
}

func TestJoinRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	room, _ := rm.CreateRoom(newClient("p0", "Ada"))

	joiner := newClient("p1", "Bob")
	got, err := rm.JoinRoom(joiner, room.Code)
	require.NoError(t, err)
	assert.Same(t, room, got)
	assert.Equal(t, room.Code, joiner.GetRoom())
	assert.Equal(t, 2, room.Game.PlayerCount())
}

func TestJoinRoom_NotFound(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	_, err := rm.JoinRoom(newClient("p1", "Bob"), "ZZZZZZ")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestJoinRoom_Full(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	room, _ := rm.CreateRoom(newClient("p0", "Ada"))
	fillRoom(t, rm, room.Code)

	_, err := rm.JoinRoom(newClient("late", "Late"), room.Code)
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestJoinRoom_AfterStart(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	// A started table is full by definition, but a leaver plus joiner
	// path must still be rejected by the engine
	_, err := rm.JoinRoom(newClient("late", "Late"), room.Code)
	assert.Error(t, err)
}

func TestLeaveRoom_Lobby(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	joiner := newClient("p1", "Bob")
	_, _ = rm.JoinRoom(joiner, room.Code)

	rm.LeaveRoom(joiner)

	assert.Empty(t, joiner.GetRoom())
	assert.Nil(t, rm.RoomOfPlayer("p1"))
	assert.Equal(t, 1, room.Game.PlayerCount())

	// Last player out deletes the room
	rm.LeaveRoom(creator)
	assert.Nil(t, rm.GetRoom(room.Code))
	assert.Equal(t, 0, rm.RoomCount())
}

func TestLeaveRoom_MidGameClosesRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	others := fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	rm.LeaveRoom(others[0])

	assert.Nil(t, rm.GetRoom(room.Code))
	for _, c := range append([]*testutil.SimpleClient{creator}, others[1:]...) {
		assert.NotEmpty(t, c.MessagesOfType(protocol.MsgRoomClosed), "client %s missed room_closed", c.ID)
		assert.Empty(t, c.GetRoom())
	}
}

func TestAddAIPlayer(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Human")
	room, _ := rm.CreateRoom(creator)

	for range 3 {
		require.NoError(t, rm.AddAIPlayer(creator))
	}
	assert.Equal(t, 4, room.Game.PlayerCount())

	// The built-in personalities fill distinct names
	names := make(map[string]bool)
	for _, p := range room.Game.Players() {
		if p.IsAI {
			names[p.Name] = true
		}
	}
	assert.Len(t, names, 3)

	// Table is full now
	assert.ErrorIs(t, rm.AddAIPlayer(creator), apperrors.ErrRoomFull)

	// AI seats are indexed for room lookup like humans
	for _, p := range room.Game.Players() {
		if p.IsAI {
			assert.Same(t, room, rm.RoomOfPlayer(p.ID))
		}
	}
}

func TestAddAIPlayer_NotInRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	assert.ErrorIs(t, rm.AddAIPlayer(newClient("loner", "x")), apperrors.ErrNotInRoom)
}

func TestStartGame(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)

	assert.ErrorIs(t, rm.StartGame(creator), apperrors.ErrNeedFourPlayers)

	others := fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))
	assert.Equal(t, euchre.PhaseTrumpSelection, room.Game.Phase())

	// Everybody got a personalized game_state
	for _, c := range append([]*testutil.SimpleClient{creator}, others...) {
		states := c.MessagesOfType(protocol.MsgGameState)
		require.NotEmpty(t, states, "client %s got no game_state", c.ID)

		payload, err := codec.ParsePayload[protocol.GameStatePayload](states[len(states)-1])
		require.NoError(t, err)
		require.NotNil(t, payload.GameState)
		assert.Equal(t, c.ID, payload.GameState.PlayerID)
		assert.Equal(t, room.Code, payload.GameState.RoomCode)
		assert.Len(t, payload.GameState.Hand, euchre.HandSize)
	}
}

func TestHandleAction(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	others := fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	// Find whoever holds the bid and pass
	actorID := room.Game.CurrentActorID()
	var actor *testutil.SimpleClient
	for _, c := range append([]*testutil.SimpleClient{creator}, others...) {
		if c.ID == actorID {
			actor = c
		}
	}
	require.NotNil(t, actor)

	// Acting out of turn is rejected and changes nothing
	for _, c := range append([]*testutil.SimpleClient{creator}, others...) {
		if c.ID != actorID {
			err := rm.HandleAction(c, euchre.PassAction{})
			assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
			break
		}
	}
	assert.Equal(t, actorID, room.Game.CurrentActorID())

	creator.Reset()
	require.NoError(t, rm.HandleAction(actor, euchre.PassAction{}))
	assert.NotEqual(t, actorID, room.Game.CurrentActorID())
	assert.NotEmpty(t, creator.MessagesOfType(protocol.MsgGameState))
}

func TestHandleAction_NotInRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	err := rm.HandleAction(newClient("loner", "x"), euchre.PassAction{})
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)
}

func TestDisconnect_Lobby(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	joiner := newClient("p1", "Bob")
	_, _ = rm.JoinRoom(joiner, room.Code)

	// A lobby disconnect gives up the seat
	rm.Disconnect(joiner)
	assert.Equal(t, 1, room.Game.PlayerCount())
	assert.Nil(t, rm.RoomOfPlayer("p1"))
}

func TestDisconnectAndReconnect(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	others := fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	dropped := others[0]
	rm.Disconnect(dropped)

	// The seat survives and the rest of the table hears about it
	assert.Equal(t, 4, room.Game.PlayerCount())
	assert.NotEmpty(t, creator.MessagesOfType(protocol.MsgPlayerDisconnected))
	assert.Empty(t, dropped.MessagesOfType(protocol.MsgPlayerDisconnected))

	// A fresh connection with the same durable identity reattaches
	reborn := newClient(dropped.ID, dropped.Name)
	got, err := rm.CheckReconnection(reborn)
	require.NoError(t, err)
	assert.Same(t, room, got)
	assert.Equal(t, room.Code, reborn.GetRoom())
	assert.NotEmpty(t, creator.MessagesOfType(protocol.MsgPlayerReconnected))

	// Idempotent: a duplicate check succeeds without another notification
	n := len(creator.MessagesOfType(protocol.MsgPlayerReconnected))
	got, err = rm.CheckReconnection(reborn)
	require.NoError(t, err)
	assert.Same(t, room, got)
	assert.Len(t, creator.MessagesOfType(protocol.MsgPlayerReconnected), n)
}

func TestCheckReconnection_NoGame(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)

	// Unknown player
	_, err := rm.CheckReconnection(newClient("ghost", "x"))
	assert.ErrorIs(t, err, apperrors.ErrNoReconnection)

	// Seated but the game never started
	creator := newClient("p0", "Ada")
	_, _ = rm.CreateRoom(creator)
	_, err = rm.CheckReconnection(creator)
	assert.ErrorIs(t, err, apperrors.ErrNoReconnection)
}

func TestAITurns_PlayUntilHumanHoldsTheTurn(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Human")
	room, _ := rm.CreateRoom(creator)
	for range 3 {
		require.NoError(t, rm.AddAIPlayer(creator))
	}
	require.NoError(t, rm.StartGame(creator))

	// Seat 0 is the human and also the first dealer, so the three AI
	// seats act first. They keep moving until the engine waits on the
	// human, whatever line the bidding took.
	require.Eventually(t, func() bool {
		room.mu.RLock()
		defer room.mu.RUnlock()
		return room.Game.CurrentActorID() == creator.ID
	}, 5*time.Second, 5*time.Millisecond)

	// The human was kept in the loop while the AIs acted
	assert.NotEmpty(t, creator.MessagesOfType(protocol.MsgGameState))
}

func TestHandleAction_ConcurrentSpam(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	others := fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	// Everyone hammers the engine at once; the per-room lock must keep
	// the bidding sequence coherent. At most one pass per player per
	// round can succeed, the rest are rejected.
	var wg sync.WaitGroup
	clients := append([]*testutil.SimpleClient{creator}, others...)
	for _, c := range clients {
		for range 10 {
			wg.Go(func() {
				_ = rm.HandleAction(c, euchre.PassAction{})
			})
		}
	}
	wg.Wait()

	room.mu.RLock()
	defer room.mu.RUnlock()
	assert.Equal(t, euchre.PhaseTrumpSelection, room.Game.Phase())
	assert.NotEmpty(t, room.Game.CurrentActorID())
}

func TestToRoomData(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)
	fillRoom(t, rm, room.Code)
	require.NoError(t, rm.StartGame(creator))

	data := room.ToRoomData()
	require.NotNil(t, data)
	assert.Equal(t, room.Code, data.Code)
	assert.Equal(t, "trump_selection", data.Phase)
	require.Len(t, data.Players, 4)
	for seat, p := range data.Players {
		assert.Equal(t, seat, p.Seat)
		assert.Equal(t, euchre.HandSize, p.HandSize)
		assert.False(t, p.IsAI)
	}
}

func newStoredManager(t *testing.T) (*Manager, *storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	rm := NewManager(store, config.GameConfig{
		WinningScore:    10,
		StickTheDealer:  true,
		AIDelayMS:       1,
		AIDelayJitterMS: 1,
		RoomTimeout:     30,
	})
	t.Cleanup(rm.Stop)
	return rm, store, mr
}

func TestRecoverRooms_ClearsStaleSnapshots(t *testing.T) {
	t.Parallel()

	rm, store, _ := newStoredManager(t)
	ctx := context.Background()

	for _, code := range []string{"AAA111", "BBB222"} {
		require.NoError(t, store.SaveRoom(ctx, code, &storage.RoomData{
			Code:  code,
			Phase: "playing",
			Players: []storage.PlayerData{
				{ID: "p1", Name: "Ada", HandSize: 3},
			},
		}))
	}

	rm.RecoverRooms(ctx)

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)
	// Interrupted games are not resumed, only cleared
	assert.Equal(t, 0, rm.RoomCount())
}

func TestCloseRoom_RetainsSnapshotWithTTL(t *testing.T) {
	t.Parallel()

	rm, store, mr := newStoredManager(t)
	ctx := context.Background()

	creator := newClient("p0", "Ada")
	room, err := rm.CreateRoom(creator)
	require.NoError(t, err)

	// Wait for the async snapshot before closing
	require.Eventually(t, func() bool {
		data, err := store.LoadRoom(ctx, room.Code)
		return err == nil && data != nil
	}, time.Second, 10*time.Millisecond)

	rm.closeRoom(room, "test over")

	require.Eventually(t, func() bool {
		return mr.TTL("room:"+room.Code) > 0
	}, time.Second, 10*time.Millisecond)

	// After the retention window the snapshot disappears
	mr.FastForward(closedRoomRetention + time.Minute)
	data, err := store.LoadRoom(ctx, room.Code)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCleanup_ClosesIdleRooms(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t)
	creator := newClient("p0", "Ada")
	room, _ := rm.CreateRoom(creator)

	room.mu.Lock()
	room.lastActivity = time.Now().Add(-rm.gameCfg.RoomTimeoutDuration() - time.Minute)
	room.mu.Unlock()

	rm.cleanup()

	assert.Nil(t, rm.GetRoom(room.Code))
	assert.NotEmpty(t, creator.MessagesOfType(protocol.MsgRoomClosed))
	assert.Empty(t, creator.GetRoom())
}
