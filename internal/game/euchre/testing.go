//go:build !production

package euchre

import "github.com/dillonco/RobertaRoyale/internal/game/card"

// SetHandForTest replaces a seat's hand with a fixed set of cards.
func (g *Game) SetHandForTest(seat int, hand []card.Card) {
	g.players[seat].Hand = append([]card.Card(nil), hand...)
}

// SetDealerForTest moves the deal and restarts round-1 bidding from the
// seat left of the new dealer.
func (g *Game) SetDealerForTest(seat int) {
	g.dealerIndex = seat
	if g.phase == PhaseTrumpSelection {
		g.selectionRound = 1
		g.selectionIndex = (seat + 1) % NumPlayers
	}
}

// SetTrumpCardForTest replaces the turned card.
func (g *Game) SetTrumpCardForTest(c card.Card) {
	g.trumpCard = c
}

// SetScoresForTest overrides the running game score.
func (g *Game) SetScoresForTest(scores [2]int) {
	g.teamScores = scores
}

// SelectionIndexForTest exposes the current bidder's seat.
func (g *Game) SelectionIndexForTest() int {
	return g.selectionIndex
}

// CurrentIndexForTest exposes the seat holding the play turn.
func (g *Game) CurrentIndexForTest() int {
	return g.currentIndex
}

// TeamTricksForTest exposes the trick tally for the round.
func (g *Game) TeamTricksForTest() [2]int {
	return g.teamTricks
}

// HandForTest returns a copy of a seat's hand.
func (g *Game) HandForTest(seat int) []card.Card {
	return append([]card.Card(nil), g.players[seat].Hand...)
}

// TurnedDownForTest exposes the suit rejected in round 1.
func (g *Game) TurnedDownForTest() card.Suit {
	return g.turnedDown
}
