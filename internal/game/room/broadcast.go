package room

import (
	"context"

	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

// BroadcastState sends every connected player their personalized view.
// Each recipient sees only their own hand.
func (rm *Manager) BroadcastState(room *Room) {
	room.mu.RLock()
	type delivery struct {
		client types.ClientInterface
		state  *protocol.GameStateDTO
	}
	deliveries := make([]delivery, 0, len(room.clients))
	for id, client := range room.clients {
		if client == nil {
			continue
		}
		state := room.Game.StateFor(id)
		state.RoomCode = room.Code
		room.fillConnectivity(state)
		deliveries = append(deliveries, delivery{client: client, state: state})
	}
	room.mu.RUnlock()

	for _, d := range deliveries {
		d.client.SendMessage(codec.MustNewMessage(protocol.MsgGameState, protocol.GameStatePayload{
			GameState: d.state,
		}))
	}
}

// SendStateTo sends one player their current personalized view, used
// after a rejected action so the offender resyncs without spamming the
// rest of the table.
func (rm *Manager) SendStateTo(room *Room, client types.ClientInterface) {
	room.mu.RLock()
	state := room.Game.StateFor(client.GetID())
	state.RoomCode = room.Code
	room.fillConnectivity(state)
	room.mu.RUnlock()

	client.SendMessage(codec.MustNewMessage(protocol.MsgGameState, protocol.GameStatePayload{
		GameState: state,
	}))
}

// StateFor builds the personalized view for one player. Used by the
// reconnection flow which wraps it in a different message type.
func (rm *Manager) StateFor(room *Room, playerID string) *protocol.GameStateDTO {
	room.mu.RLock()
	defer room.mu.RUnlock()
	state := room.Game.StateFor(playerID)
	state.RoomCode = room.Code
	room.fillConnectivity(state)
	return state
}

// fillConnectivity stamps per-seat connection status. AI seats always
// count as connected. Caller holds room.mu.
func (r *Room) fillConnectivity(state *protocol.GameStateDTO) {
	for i := range state.Players {
		if client, seated := r.clients[state.Players[i].ID]; seated {
			state.Players[i].IsConnected = client != nil
		}
	}
}

// broadcastExcept sends msg to every connected player but one.
func (r *Room) broadcastExcept(excludeID string, msg *protocol.Message) {
	r.mu.RLock()
	targets := make([]types.ClientInterface, 0, len(r.clients))
	for id, client := range r.clients {
		if id != excludeID && client != nil {
			targets = append(targets, client)
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		c.SendMessage(msg)
	}
}

// Broadcast sends msg to every connected player in the room.
func (r *Room) Broadcast(msg *protocol.Message) {
	r.broadcastExcept("", msg)
}

// saveRoomAsync snapshots the room to Redis without blocking gameplay.
func (rm *Manager) saveRoomAsync(room *Room) {
	if rm.store == nil {
		return
	}
	data := room.ToRoomData()
	go func() { _ = rm.store.SaveRoom(context.Background(), room.Code, data) }()
}
