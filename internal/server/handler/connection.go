package handler

import (
	"time"

	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleCheckReconnection reattaches a returning player to their running
// game, or tells them nothing is waiting. The durable player_id presented
// at connect time is the whole credential.
func (h *Handler) handleCheckReconnection(client types.ClientInterface) {
	r, err := h.roomManager.CheckReconnection(client)
	if err != nil {
		client.SendMessage(codec.MustNewMessage(protocol.MsgNoReconnectionAvailable, nil))
		return
	}

	h.sessionManager.SetRoom(client.GetID(), r.Code)

	client.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, protocol.ReconnectedPayload{
		GameState: h.roomManager.StateFor(r, client.GetID()),
	}))
}
