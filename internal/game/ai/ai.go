// Package ai provides computer opponents. Each AI seat gets a personality
// that shifts its bidding thresholds and play style, and submits the same
// actions a human would.
package ai

import (
	"math/rand/v2"

	"github.com/dillonco/RobertaRoyale/internal/game/card"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
)

// Personality tunes an AI's decision thresholds. All values are 0.0-1.0.
type Personality struct {
	Name             string
	Aggression       float64 // trump calling and going alone
	Conservatism     float64 // card play
	PartnershipFocus float64 // weight given to the partner's position
	RiskTolerance    float64 // willingness to go alone
}

// Personalities are the built-in AI opponents.
var Personalities = []Personality{
	{Name: "Ada", Aggression: 0.7, Conservatism: 0.3, PartnershipFocus: 0.8, RiskTolerance: 0.6},
	{Name: "Bob", Aggression: 0.3, Conservatism: 0.7, PartnershipFocus: 0.6, RiskTolerance: 0.4},
	{Name: "Clara", Aggression: 0.8, Conservatism: 0.2, PartnershipFocus: 0.5, RiskTolerance: 0.8},
	{Name: "Dave", Aggression: 0.5, Conservatism: 0.5, PartnershipFocus: 0.9, RiskTolerance: 0.5},
}

// RandomPersonality picks one of the built-in personalities.
func RandomPersonality() Personality {
	return Personalities[rand.IntN(len(Personalities))]
}

// Player is one AI-controlled seat.
type Player struct {
	ID          string
	Personality Personality
}

// NewPlayer creates an AI player with the given personality.
func NewPlayer(id string, p Personality) *Player {
	return &Player{ID: id, Personality: p}
}

// HandStrength scores a hand against a candidate trump suit, 0.0-1.0.
// Bowers dominate, trump length and off-suit aces add smaller bonuses.
func HandStrength(hand []card.Card, trump card.Suit) float64 {
	if trump == "" {
		return 0
	}
	strength := 0.0
	trumpCount := 0
	offAces := 0
	for _, c := range hand {
		switch {
		case c.IsRightBower(trump):
			trumpCount++
			strength += 0.25
		case c.IsLeftBower(trump):
			trumpCount++
			strength += 0.20
		case c.Suit == trump && c.Rank == card.Ace:
			trumpCount++
			strength += 0.15
		case c.Suit == trump:
			trumpCount++
			strength += 0.08
		case c.Rank == card.Ace:
			offAces++
			strength += 0.05
		}
	}
	if trumpCount >= 3 {
		strength += 0.15
	} else if trumpCount >= 2 {
		strength += 0.08
	}
	strength += float64(offAces) * 0.03
	return min(strength, 1.0)
}

// Decide picks the action for the player's current turn. It returns nil
// when the snapshot's phase offers nothing to decide.
func (p *Player) Decide(snap euchre.Snapshot) euchre.Action {
	switch snap.Phase {
	case euchre.PhaseTrumpSelection:
		return p.decideBid(snap)
	case euchre.PhaseDealerDiscard:
		return euchre.DiscardAction{Card: p.ChooseDiscard(snap.Hand, snap.TrumpSuit)}
	case euchre.PhasePlaying:
		return euchre.PlayAction{Card: p.chooseCard(snap)}
	default:
		return nil
	}
}

func (p *Player) decideBid(snap euchre.Snapshot) euchre.Action {
	if snap.SelectionRound == 1 {
		strength := HandStrength(snap.Hand, snap.TrumpCard.Suit)
		threshold := 0.4 - p.Personality.Aggression*0.2
		if snap.IsDealer {
			threshold -= 0.1
		}
		if strength >= threshold {
			return euchre.OrderUpAction{}
		}
		return euchre.PassAction{}
	}

	// Round 2: find the strongest suit among those still callable
	var bestSuit card.Suit
	bestStrength := 0.0
	for _, s := range card.Suits {
		if s == snap.TurnedDown {
			continue
		}
		if strength := HandStrength(snap.Hand, s); strength > bestStrength {
			bestStrength = strength
			bestSuit = s
		}
	}

	threshold := 0.5 - p.Personality.Aggression*0.25
	if bestStrength >= threshold || snap.MustNameTrump {
		return euchre.NameTrumpAction{Suit: bestSuit}
	}
	return euchre.PassAction{}
}

// ShouldGoAlone decides whether the player, having called trump, plays
// without a partner. Both bowers plus a third trump always go alone.
func (p *Player) ShouldGoAlone(hand []card.Card, trump card.Suit) bool {
	if p.Personality.RiskTolerance < 0.3 {
		return false
	}

	hasRight, hasLeft := false, false
	trumpCount := 0
	for _, c := range hand {
		if c.IsTrump(trump) {
			trumpCount++
		}
		if c.IsRightBower(trump) {
			hasRight = true
		}
		if c.IsLeftBower(trump) {
			hasLeft = true
		}
	}
	if hasRight && hasLeft && trumpCount >= 3 {
		return true
	}

	threshold := 0.8 - p.Personality.RiskTolerance*0.2
	return HandStrength(hand, trump) >= threshold && rand.Float64() < p.Personality.Aggression
}

// ChooseDiscard picks the dealer's discard: the lowest non-trump card,
// or the lowest trump when the hand is all trump.
func (p *Player) ChooseDiscard(hand []card.Card, trump card.Suit) card.Card {
	var best card.Card
	bestValue := -1
	for _, c := range hand {
		if c.IsTrump(trump) {
			continue
		}
		if bestValue < 0 || int(c.Rank) < bestValue {
			best = c
			bestValue = int(c.Rank)
		}
	}
	if bestValue >= 0 {
		return best
	}
	// All trump. Let the lowest one go.
	best = hand[0]
	for _, c := range hand[1:] {
		if card.Value(c, trump, trump) < card.Value(best, trump, trump) {
			best = c
		}
	}
	return best
}

func (p *Player) chooseCard(snap euchre.Snapshot) card.Card {
	legal := snap.Hand
	var lead card.Suit
	if len(snap.Trick) > 0 {
		lead = snap.Trick[0].Card.EffectiveSuit(snap.TrumpSuit)
		legal = card.Playable(snap.Hand, lead, snap.TrumpSuit)
	}
	if len(snap.Trick) == 0 {
		return p.chooseLead(legal, snap.TrumpSuit)
	}
	return p.chooseFollow(legal, snap.Trick, snap.TrumpSuit, lead)
}

// chooseLead opens a trick: aggressive players pull trump, everyone
// else leads off-suit aces or their highest side card.
func (p *Player) chooseLead(legal []card.Card, trump card.Suit) card.Card {
	var trumps, offs []card.Card
	for _, c := range legal {
		if c.IsTrump(trump) {
			trumps = append(trumps, c)
		} else {
			offs = append(offs, c)
		}
	}

	if len(trumps) > 0 && rand.Float64() < p.Personality.Aggression {
		best := trumps[0]
		for _, c := range trumps[1:] {
			if card.Value(c, trump, trump) > card.Value(best, trump, trump) {
				best = c
			}
		}
		return best
	}

	if len(offs) > 0 {
		for _, c := range offs {
			if c.Rank == card.Ace {
				return c
			}
		}
		best := offs[0]
		for _, c := range offs[1:] {
			if c.Rank > best.Rank {
				best = c
			}
		}
		return best
	}
	return legal[0]
}

// chooseFollow wins the trick as cheaply as possible, or sheds the
// lowest card when the trick is out of reach.
func (p *Player) chooseFollow(legal []card.Card, trick []euchre.PlayedCard, trump, lead card.Suit) card.Card {
	bestInTrick := trick[0].Card
	for _, pc := range trick[1:] {
		if card.Value(pc.Card, trump, lead) > card.Value(bestInTrick, trump, lead) {
			bestInTrick = pc.Card
		}
	}
	toBeat := card.Value(bestInTrick, trump, lead)

	var winners []card.Card
	for _, c := range legal {
		if card.Value(c, trump, lead) > toBeat {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		cheapest := winners[0]
		for _, c := range winners[1:] {
			if card.Value(c, trump, lead) < card.Value(cheapest, trump, lead) {
				cheapest = c
			}
		}
		return cheapest
	}

	lowest := legal[0]
	for _, c := range legal[1:] {
		if card.Value(c, trump, lead) < card.Value(lowest, trump, lead) {
			lowest = c
		}
	}
	return lowest
}
