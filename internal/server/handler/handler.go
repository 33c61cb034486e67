// Package handler routes decoded client messages to the room layer and
// translates failures into coded error responses.
package handler

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/room"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/server/session"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

// HandlerDeps carries the handler's collaborators.
type HandlerDeps struct {
	Server         types.ServerInterface
	RoomManager    *room.Manager
	SessionManager *session.Manager
}

// Handler dispatches inbound messages by type.
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.Manager
	sessionManager *session.Manager
	handlers       map[protocol.MessageType]handlerFunc
	log            *logrus.Entry
}

type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler creates the message dispatcher.
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		sessionManager: deps.SessionManager,
		log:            logrus.WithField("component", "handler"),
	}
	h.initHandlers()
	return h
}

func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// Connection
		protocol.MsgPing:              h.handlePing,
		protocol.MsgCheckReconnection: func(c types.ClientInterface, _ *protocol.Message) { h.handleCheckReconnection(c) },

		// Room operations
		protocol.MsgCreateRoom:  h.handleCreateRoom,
		protocol.MsgJoinRoom:    h.handleJoinRoom,
		protocol.MsgLeaveRoom:   func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },
		protocol.MsgAddAIPlayer: func(c types.ClientInterface, _ *protocol.Message) { h.handleAddAIPlayer(c) },
		protocol.MsgStartGame:   func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgNewGame:     func(c types.ClientInterface, _ *protocol.Message) { h.handleNewGame(c) },

		// Game operations
		protocol.MsgTrumpSelection: h.handleTrumpSelection,
		protocol.MsgGoingAlone:     h.handleGoingAlone,
		protocol.MsgPlayCard:       h.handlePlayCard,
		protocol.MsgDiscardCard:    h.handleDiscardCard,
	}
}

// Handle routes one decoded message.
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if fn, ok := h.handlers[msg.Type]; ok {
		fn(client, msg)
		return
	}

	h.log.WithFields(logrus.Fields{"type": msg.Type, "player": client.GetID()}).Warn("unknown message type")
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError reports a failure to the offending client only.
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// sendGameError reports a rejected game action and resyncs the offender
// with their authoritative state, so an out-of-date client recovers.
func (h *Handler) sendGameError(client types.ClientInterface, err error) {
	h.sendError(client, err)
	if r := h.roomManager.RoomOfPlayer(client.GetID()); r != nil {
		h.roomManager.SendStateTo(r, client)
	}
}
