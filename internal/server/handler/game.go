package handler

import (
	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/card"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/protocol/convert"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

func (h *Handler) handleTrumpSelection(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.TrumpSelectionPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	var action euchre.Action
	switch payload.Action {
	case protocol.TrumpActionOrderUp:
		action = euchre.OrderUpAction{}
	case protocol.TrumpActionPass:
		action = euchre.PassAction{}
	case protocol.TrumpActionNameTrump:
		suit := card.Suit(payload.Suit)
		if !suit.Valid() {
			h.sendGameError(client, apperrors.ErrInvalidSuit)
			return
		}
		action = euchre.NameTrumpAction{Suit: suit}
	default:
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := h.roomManager.HandleAction(client, action); err != nil {
		h.sendGameError(client, err)
	}
}

func (h *Handler) handleGoingAlone(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GoingAlonePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := h.roomManager.HandleAction(client, euchre.GoAloneAction{Alone: payload.GoingAlone}); err != nil {
		h.sendGameError(client, err)
	}
}

func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	action := euchre.PlayAction{Card: convert.InfoToCard(payload.Card)}
	if err := h.roomManager.HandleAction(client, action); err != nil {
		h.sendGameError(client, err)
	}
}

func (h *Handler) handleDiscardCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.DiscardCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	action := euchre.DiscardAction{Card: convert.InfoToCard(payload.Card)}
	if err := h.roomManager.HandleAction(client, action); err != nil {
		h.sendGameError(client, err)
	}
}
