// Package card defines the 24-card Euchre deck and trump-aware ranking.
package card

import (
	"fmt"
	"math/rand/v2"
)

// Suit is one of the four French suits.
type Suit string

const (
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
)

// Suits lists all suits in a stable order.
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Valid reports whether s names a real suit.
func (s Suit) Valid() bool {
	switch s {
	case Clubs, Diamonds, Hearts, Spades:
		return true
	}
	return false
}

// SameColor reports whether both suits are red or both are black.
func (s Suit) SameColor(other Suit) bool {
	red := func(x Suit) bool { return x == Diamonds || x == Hearts }
	return red(s) == red(other)
}

// Rank is the card face value. Nine through ace, with ace high.
type Rank int

const (
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Ranks lists the six Euchre ranks low to high.
var Ranks = []Rank{Nine, Ten, Jack, Queen, King, Ace}

// Valid reports whether r is a playable Euchre rank.
func (r Rank) Valid() bool {
	return r >= Nine && r <= Ace
}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Card is a single playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// NewDeck returns the full 24-card Euchre deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 24)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle permutes the deck in place.
func Shuffle(deck []Card) {
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// IsRightBower reports whether c is the jack of trump.
func (c Card) IsRightBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump
}

// IsLeftBower reports whether c is the jack of the same-color suit,
// which plays as the second-highest trump.
func (c Card) IsLeftBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit != trump && c.Suit.SameColor(trump)
}

// IsTrump reports whether c belongs to the trump suit, counting the
// left bower as trump.
func (c Card) IsTrump(trump Suit) bool {
	return c.Suit == trump || c.IsLeftBower(trump)
}

// EffectiveSuit is the suit the card plays as. The left bower plays as
// trump rather than its printed suit.
func (c Card) EffectiveSuit(trump Suit) Suit {
	if c.IsLeftBower(trump) {
		return trump
	}
	return c.Suit
}

// Value scores a card for trick resolution. Higher wins. The right
// bower beats everything, then the left bower, then trump by rank,
// then the led suit by rank. Off-suit cards score zero.
func Value(c Card, trump, lead Suit) int {
	switch {
	case c.IsRightBower(trump):
		return 100
	case c.IsLeftBower(trump):
		return 99
	case c.Suit == trump:
		return 50 + int(c.Rank)
	case c.Suit == lead:
		return int(c.Rank)
	default:
		return 0
	}
}

// Playable returns the subset of hand that may legally be played when
// lead is the effective suit of the led card. A player holding the led
// suit must follow it; otherwise any card goes.
func Playable(hand []Card, lead Suit, trump Suit) []Card {
	follow := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.EffectiveSuit(trump) == lead {
			follow = append(follow, c)
		}
	}
	if len(follow) > 0 {
		return follow
	}
	return append([]Card(nil), hand...)
}
