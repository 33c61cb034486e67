package handler

import (
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	// The payload is optional; a supplied player_name renames the seat
	if len(msg.Payload) > 0 {
		if payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg); err == nil {
			h.applyPlayerName(client, payload.PlayerName)
		}
	}

	// Leaving first keeps a client from holding two seats
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.CreateRoom(client)
	if err != nil {
		client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
			Success: false,
		}))
		h.sendError(client, err)
		return
	}

	h.sessionManager.SetRoom(client.GetID(), r.Code)
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		Success:  true,
		RoomCode: r.Code,
	}))
	h.roomManager.BroadcastState(r)
}

func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.applyPlayerName(client, payload.PlayerName)

	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
			Success: false,
		}))
		h.sendError(client, err)
		return
	}

	h.sessionManager.SetRoom(client.GetID(), r.Code)
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		Success:  true,
		RoomCode: r.Code,
	}))
	h.roomManager.BroadcastState(r)
}

// applyPlayerName renames the seat and its session when the request
// carries a name.
func (h *Handler) applyPlayerName(client types.ClientInterface, name string) {
	if name == "" || name == client.GetName() {
		return
	}
	client.SetName(name)
	h.sessionManager.Bind(client.GetID(), name)
}

func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.roomManager.LeaveRoom(client)
	h.sessionManager.SetRoom(client.GetID(), "")
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeftRoom, protocol.LeftRoomPayload{Success: true}))
}

func (h *Handler) handleAddAIPlayer(client types.ClientInterface) {
	if err := h.roomManager.AddAIPlayer(client); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleStartGame(client types.ClientInterface) {
	if err := h.roomManager.StartGame(client); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleNewGame(client types.ClientInterface) {
	if err := h.roomManager.NewGame(client); err != nil {
		h.sendError(client, err)
	}
}
