package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillonco/RobertaRoyale/internal/config"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Game.AIDelayMS = 1
	cfg.Game.AIDelayJitterMS = 1

	s, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	if query != "" {
		url += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg *protocol.Message) {
	t.Helper()
	data, err := codec.Encode(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readUntil reads frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want protocol.MessageType) *protocol.Message {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", want)
		msg, err := codec.Decode(data)
		require.NoError(t, err)
		if msg.Type == want {
			return msg
		}
	}
}

func TestConnect_AssignsIdentity(t *testing.T) {
	s, ts := newTestServer(t)

	conn := dial(t, ts, "name=Ada")
	msg := readUntil(t, conn, protocol.MsgConnected)

	payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.PlayerID)
	assert.Equal(t, "Ada", payload.PlayerName)
	assert.Equal(t, 1, s.GetOnlineCount())
}

func TestConnect_KeepsPresentedIdentity(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dial(t, ts, "player_id=my-durable-id&name=Ada")
	msg := readUntil(t, conn, protocol.MsgConnected)

	payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "my-durable-id", payload.PlayerID)
}

func TestConnect_GeneratesNickname(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dial(t, ts, "")
	msg := readUntil(t, conn, protocol.MsgConnected)

	payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.PlayerName)
}

func TestPingPong(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dial(t, ts, "name=Ada")
	readUntil(t, conn, protocol.MsgConnected)

	send(t, conn, codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 99}))
	msg := readUntil(t, conn, protocol.MsgPong)

	payload, err := codec.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, int64(99), payload.ClientTimestamp)
}

func TestInvalidFrame_GetsErrorNotDisconnect(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dial(t, ts, "name=Ada")
	readUntil(t, conn, protocol.MsgConnected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readUntil(t, conn, protocol.MsgError)

	payload, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, payload.Code)

	// The connection survives bad input
	send(t, conn, codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 1}))
	readUntil(t, conn, protocol.MsgPong)
}

func TestCreateRoomOverWire(t *testing.T) {
	s, ts := newTestServer(t)

	conn := dial(t, ts, "name=Ada")
	readUntil(t, conn, protocol.MsgConnected)

	send(t, conn, codec.MustNewMessage(protocol.MsgCreateRoom, nil))
	msg := readUntil(t, conn, protocol.MsgRoomCreated)

	payload, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
	require.NoError(t, err)
	assert.True(t, payload.Success)
	assert.NotNil(t, s.roomManager.GetRoom(payload.RoomCode))
}

func TestFullGameOverWire_AgainstThreeAIs(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dial(t, ts, "player_id=human&name=Human")
	readUntil(t, conn, protocol.MsgConnected)

	send(t, conn, codec.MustNewMessage(protocol.MsgCreateRoom, nil))
	readUntil(t, conn, protocol.MsgRoomCreated)

	for range 3 {
		send(t, conn, codec.MustNewMessage(protocol.MsgAddAIPlayer, nil))
	}
	send(t, conn, codec.MustNewMessage(protocol.MsgStartGame, nil))

	// Keep consuming state frames until the engine waits on us
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		msg := readUntil(t, conn, protocol.MsgGameState)
		payload, err := codec.ParsePayload[protocol.GameStatePayload](msg)
		require.NoError(t, err)
		state := payload.GameState
		require.NotNil(t, state)

		// Our hand is visible, nobody else's ever is
		require.Len(t, state.Players, 4)
		assert.Equal(t, "human", state.PlayerID)

		if state.Phase == "trump_selection" &&
			state.TrumpSelectionPlayerIndex == state.PlayerPosition {
			// Pass; eventually an AI calls or the deal rotates
			send(t, conn, codec.MustNewMessage(protocol.MsgTrumpSelection, protocol.TrumpSelectionPayload{
				Action: protocol.TrumpActionPass,
			}))
			return
		}
	}
	t.Fatal("engine never waited on the human seat")
}

func TestReconnectOverWire(t *testing.T) {
	_, ts := newTestServer(t)

	// A second connection presenting the same durable ID supersedes the
	// first and can ask about reconnection
	conn1 := dial(t, ts, "player_id=dup&name=Ada")
	readUntil(t, conn1, protocol.MsgConnected)

	conn2 := dial(t, ts, "player_id=dup&name=Ada")
	readUntil(t, conn2, protocol.MsgConnected)

	send(t, conn2, codec.MustNewMessage(protocol.MsgCheckReconnection, nil))
	readUntil(t, conn2, protocol.MsgNoReconnectionAvailable)
}

func TestSendMessage_ConcurrentWithClose(t *testing.T) {
	t.Parallel()

	// Broadcasters (AI timer callbacks, room fan-out) race connection
	// takeover closing the same client. Nothing here may panic with a
	// send on a closed channel.
	for range 50 {
		client := NewClient(nil, nil, "p0", "Ada")
		msg := codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{})

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				for range 100 {
					client.SendMessage(msg)
				}
			})
		}
		wg.Go(client.Close)
		wg.Wait()

		// Closed clients swallow further sends
		client.SendMessage(msg)
	}
}

func TestGenerateNickname(t *testing.T) {
	t.Parallel()

	for range 20 {
		name := GenerateNickname()
		assert.NotEmpty(t, name)
		assert.Contains(t, name, " ")
	}
}
