package euchre

import (
	"fmt"

	"github.com/dillonco/RobertaRoyale/internal/game/card"
)

// Action is a single move a player can submit to the engine. Human
// input and AI decisions both flow through Game.Apply with the same
// action values, so they are validated identically.
type Action interface {
	isAction()
}

// OrderUpAction orders the dealer to pick up the turned card (round 1).
type OrderUpAction struct{}

// PassAction declines to call trump.
type PassAction struct{}

// NameTrumpAction names a trump suit in round 2.
type NameTrumpAction struct {
	Suit card.Suit
}

// GoAloneAction records the trump maker's going-alone decision.
type GoAloneAction struct {
	Alone bool
}

// DiscardAction is the dealer's discard after picking up the turned card.
type DiscardAction struct {
	Card card.Card
}

// PlayAction plays one card to the current trick.
type PlayAction struct {
	Card card.Card
}

func (OrderUpAction) isAction()   {}
func (PassAction) isAction()      {}
func (NameTrumpAction) isAction() {}
func (GoAloneAction) isAction()   {}
func (DiscardAction) isAction()   {}
func (PlayAction) isAction()      {}

// Apply validates and executes one action on behalf of playerID.
// On error the game state is unchanged.
func (g *Game) Apply(playerID string, action Action) error {
	switch a := action.(type) {
	case OrderUpAction:
		return g.OrderUp(playerID)
	case PassAction:
		return g.PassTrump(playerID)
	case NameTrumpAction:
		return g.NameTrump(playerID, a.Suit)
	case GoAloneAction:
		return g.DeclareGoingAlone(playerID, a.Alone)
	case DiscardAction:
		return g.DealerDiscard(playerID, a.Card)
	case PlayAction:
		return g.PlayCard(playerID, a.Card)
	default:
		panic(fmt.Sprintf("euchre: unknown action type %T", action))
	}
}
