// Package euchre implements the four-player Euchre state machine: dealing,
// two-round trump selection, dealer discard, going alone, trick play and
// scoring. The engine is not goroutine-safe; callers serialize access.
package euchre

import (
	"fmt"

	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/card"
)

const (
	// NumPlayers is the fixed table size.
	NumPlayers = 4
	// HandSize is the cards dealt to each player per round.
	HandSize = 5
	// TricksPerRound is the number of tricks in one round.
	TricksPerRound = 5
	// DefaultWinningScore ends the game when a team reaches it.
	DefaultWinningScore = 10
)

// Options tune game behavior.
type Options struct {
	// WinningScore is the points needed to win. Zero means DefaultWinningScore.
	WinningScore int
	// StickTheDealer forces the dealer to name trump in round 2 instead of
	// allowing a redeal.
	StickTheDealer bool
}

// Player is one seat at the table.
type Player struct {
	ID   string
	Name string
	IsAI bool
	Hand []card.Card
}

// PlayedCard is one contribution to the trick in progress.
type PlayedCard struct {
	Seat int
	Card card.Card
}

// Game holds the full authoritative state of one Euchre table.
type Game struct {
	opts    Options
	phase   Phase
	players []*Player // seat order; teams are even seats vs odd seats

	dealerIndex int
	trumpCard   card.Card // the turned card from the kitty
	trumpSuit   card.Suit // empty until trump is established
	turnedDown  card.Suit // suit rejected in round 1, barred in round 2

	selectionRound int // 1 or 2 during PhaseTrumpSelection
	selectionIndex int // seat currently bidding
	currentIndex   int // seat to act during PhasePlaying

	trumpMaker   int // seat that called trump, -1 before then
	goingAlone   bool
	aloneDecided bool

	trick           []PlayedCard
	trickLeader     int
	lastTrick       []PlayedCard
	lastTrickWinner int // seat, -1 when no trick has completed
	completedTricks int
	teamTricks      [2]int
	teamScores      [2]int
	winningTeam     int // -1 until PhaseGameComplete

	events []Event
}

// New creates an empty table.
func New(opts Options) *Game {
	if opts.WinningScore <= 0 {
		opts.WinningScore = DefaultWinningScore
	}
	return &Game{
		opts:            opts,
		phase:           PhaseWaiting,
		players:         make([]*Player, 0, NumPlayers),
		trumpMaker:      -1,
		lastTrickWinner: -1,
		winningTeam:     -1,
	}
}

// AddPlayer seats a player at the next open position and returns it.
func (g *Game) AddPlayer(id, name string, isAI bool) (int, error) {
	if g.phase != PhaseWaiting {
		return 0, apperrors.ErrGameAlreadyStarted
	}
	if len(g.players) >= NumPlayers {
		return 0, apperrors.ErrRoomFull
	}
	seat := len(g.players)
	g.players = append(g.players, &Player{ID: id, Name: name, IsAI: isAI})
	return seat, nil
}

// RemovePlayer frees a seat before the game starts. Later seats shift down.
func (g *Game) RemovePlayer(id string) error {
	if g.phase != PhaseWaiting {
		return apperrors.ErrGameAlreadyStarted
	}
	for i, p := range g.players {
		if p.ID == id {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNoSuchPlayer
}

// Start deals the first round. Exactly four players must be seated.
func (g *Game) Start() error {
	if g.phase != PhaseWaiting {
		return apperrors.ErrGameAlreadyStarted
	}
	if len(g.players) != NumPlayers {
		return apperrors.ErrNeedFourPlayers
	}
	g.addEvent("Game started")
	g.deal()
	return nil
}

// Restart begins a fresh game at the same table after a completed one.
// Scores reset and the deal rotates.
func (g *Game) Restart() error {
	if g.phase != PhaseGameComplete {
		return apperrors.ErrGameNotOver
	}
	g.teamScores = [2]int{}
	g.winningTeam = -1
	g.dealerIndex = (g.dealerIndex + 1) % NumPlayers
	g.events = nil
	g.addEvent("New game started")
	g.deal()
	return nil
}

// deal shuffles, hands out five cards each, turns the kitty's top card
// and opens round-1 bidding left of the dealer.
func (g *Game) deal() {
	deck := card.NewDeck()
	card.Shuffle(deck)
	for i, p := range g.players {
		p.Hand = append(p.Hand[:0], deck[i*HandSize:(i+1)*HandSize]...)
	}
	g.trumpCard = deck[NumPlayers*HandSize]

	g.trumpSuit = ""
	g.turnedDown = ""
	g.trumpMaker = -1
	g.goingAlone = false
	g.aloneDecided = false
	g.trick = nil
	g.lastTrick = nil
	g.lastTrickWinner = -1
	g.completedTricks = 0
	g.teamTricks = [2]int{}

	g.phase = PhaseTrumpSelection
	g.selectionRound = 1
	g.selectionIndex = (g.dealerIndex + 1) % NumPlayers
	g.addEvent("%s dealt. %s is turned up", g.players[g.dealerIndex].Name, g.trumpCard)
}

// OrderUp orders the dealer to pick up the turned card, fixing its suit
// as trump. Only legal in bidding round 1.
func (g *Game) OrderUp(playerID string) error {
	seat, err := g.bidderSeat(playerID)
	if err != nil {
		return err
	}
	if g.selectionRound != 1 {
		return apperrors.ErrWrongPhase
	}

	g.trumpSuit = g.trumpCard.Suit
	g.trumpMaker = seat
	g.players[g.dealerIndex].Hand = append(g.players[g.dealerIndex].Hand, g.trumpCard)
	g.phase = PhaseDealerDiscard
	g.addEvent("%s ordered up %s. Trump is %s", g.players[seat].Name, g.trumpCard, g.trumpSuit)
	return nil
}

// PassTrump declines to call. When all four pass in round 1 the turned
// card goes down and round 2 opens. When all four pass in round 2 the
// outcome depends on the stick-the-dealer rule: with it on, the dealer
// is never allowed to pass; with it off, the hand is thrown in and goes
// to the next dealer.
func (g *Game) PassTrump(playerID string) error {
	seat, err := g.bidderSeat(playerID)
	if err != nil {
		return err
	}
	if g.selectionRound == 2 && g.opts.StickTheDealer && seat == g.dealerIndex {
		return apperrors.ErrDealerMustName
	}

	g.addEvent("%s passed", g.players[seat].Name)
	if seat != g.dealerIndex {
		g.selectionIndex = (seat + 1) % NumPlayers
		return nil
	}

	// The dealer passed, closing out the round of bidding.
	if g.selectionRound == 1 {
		g.turnedDown = g.trumpCard.Suit
		g.selectionRound = 2
		g.selectionIndex = (g.dealerIndex + 1) % NumPlayers
		g.addEvent("%s is turned down", g.trumpCard)
		return nil
	}
	g.addEvent("Nobody called trump. Throwing the hand in")
	g.dealerIndex = (g.dealerIndex + 1) % NumPlayers
	g.deal()
	return nil
}

// NameTrump names a trump suit in bidding round 2. The suit turned down
// in round 1 cannot be named.
func (g *Game) NameTrump(playerID string, suit card.Suit) error {
	seat, err := g.bidderSeat(playerID)
	if err != nil {
		return err
	}
	if g.selectionRound != 2 {
		return apperrors.ErrWrongPhase
	}
	if !suit.Valid() {
		return apperrors.ErrInvalidSuit
	}
	if suit == g.turnedDown {
		return apperrors.ErrSuitTurnedDown
	}

	g.trumpSuit = suit
	g.trumpMaker = seat
	g.beginPlay()
	g.addEvent("%s named %s as trump", g.players[seat].Name, suit)
	return nil
}

// DealerDiscard removes one card from the dealer's six-card hand after
// an order-up, then opens trick play.
func (g *Game) DealerDiscard(playerID string, c card.Card) error {
	if g.phase != PhaseDealerDiscard {
		return apperrors.ErrWrongPhase
	}
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return apperrors.ErrNoSuchPlayer
	}
	if seat != g.dealerIndex {
		return apperrors.ErrNotYourTurn
	}

	dealer := g.players[seat]
	idx := indexOfCard(dealer.Hand, c)
	if idx < 0 {
		return apperrors.ErrCardNotHeld
	}
	dealer.Hand = append(dealer.Hand[:idx], dealer.Hand[idx+1:]...)
	g.beginPlay()
	g.addEvent("%s picked up and discarded", dealer.Name)
	return nil
}

// DeclareGoingAlone records whether the trump maker plays without their
// partner. It must come from the maker before the first card of the
// round; once a card hits the table the decision is locked.
func (g *Game) DeclareGoingAlone(playerID string, alone bool) error {
	if g.phase != PhaseDealerDiscard && g.phase != PhasePlaying {
		return apperrors.ErrWrongPhase
	}
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return apperrors.ErrNoSuchPlayer
	}
	if seat != g.trumpMaker {
		return apperrors.ErrNotTrumpMaker
	}
	if g.aloneDecided {
		return apperrors.ErrAloneDecided
	}
	if g.completedTricks > 0 || len(g.trick) > 0 {
		return apperrors.ErrTooLateForAlone
	}

	g.aloneDecided = true
	g.goingAlone = alone
	if alone {
		g.addEvent("%s is going alone", g.players[seat].Name)
		// If the sidelined partner was due to lead, the lead moves on.
		if g.phase == PhasePlaying && g.sittingOut(g.currentIndex) {
			g.currentIndex = g.nextActiveSeat(g.currentIndex)
			g.trickLeader = g.currentIndex
		}
	}
	return nil
}

// PlayCard plays c for playerID. The led suit must be followed when the
// hand allows it; the left bower follows trump, not its printed suit.
func (g *Game) PlayCard(playerID string, c card.Card) error {
	if g.phase != PhasePlaying {
		switch g.phase {
		case PhaseWaiting:
			return apperrors.ErrGameNotStarted
		default:
			return apperrors.ErrWrongPhase
		}
	}
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return apperrors.ErrNoSuchPlayer
	}
	if seat != g.currentIndex {
		return apperrors.ErrNotYourTurn
	}

	p := g.players[seat]
	idx := indexOfCard(p.Hand, c)
	if idx < 0 {
		return apperrors.ErrCardNotHeld
	}
	if len(g.trick) > 0 {
		lead := g.trick[0].Card.EffectiveSuit(g.trumpSuit)
		legal := card.Playable(p.Hand, lead, g.trumpSuit)
		if indexOfCard(legal, c) < 0 {
			return apperrors.ErrMustFollowSuit
		}
	}

	g.aloneDecided = true // too late to change once a card is down
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	g.trick = append(g.trick, PlayedCard{Seat: seat, Card: c})
	g.addEvent("%s played %s", p.Name, c)

	if len(g.trick) == g.activeCount() {
		g.resolveTrick()
		return nil
	}
	g.currentIndex = g.nextActiveSeat(seat)
	return nil
}

// beginPlay transitions to trick play with the lead left of the dealer.
func (g *Game) beginPlay() {
	g.phase = PhasePlaying
	g.currentIndex = g.nextActiveSeat(g.dealerIndex)
	g.trickLeader = g.currentIndex
	g.trick = nil
}

// resolveTrick scores the completed trick and either opens the next one
// or closes out the round.
func (g *Game) resolveTrick() {
	if len(g.trick) != g.activeCount() {
		panic(fmt.Sprintf("euchre: resolving trick with %d of %d cards", len(g.trick), g.activeCount()))
	}
	lead := g.trick[0].Card.EffectiveSuit(g.trumpSuit)
	winner := g.trick[0]
	for _, pc := range g.trick[1:] {
		if card.Value(pc.Card, g.trumpSuit, lead) > card.Value(winner.Card, g.trumpSuit, lead) {
			winner = pc
		}
	}

	g.teamTricks[winner.Seat%2]++
	g.completedTricks++
	g.lastTrick = g.trick
	g.lastTrickWinner = winner.Seat
	g.addEvent("%s won the trick with %s", g.players[winner.Seat].Name, winner.Card)

	if g.completedTricks == TricksPerRound {
		g.completeRound()
		return
	}
	g.trick = nil
	g.currentIndex = winner.Seat
	g.trickLeader = winner.Seat
}

// completeRound applies Euchre scoring, then either ends the game or
// rotates the deal and starts the next round.
func (g *Game) completeRound() {
	makers := g.trumpMaker % 2
	defenders := 1 - makers
	makerTricks := g.teamTricks[makers]

	switch {
	case makerTricks == TricksPerRound && g.goingAlone:
		g.teamScores[makers] += 4
		g.addEvent("Team %d swept alone for 4 points", makers+1)
	case makerTricks == TricksPerRound:
		g.teamScores[makers] += 2
		g.addEvent("Team %d took all five tricks for 2 points", makers+1)
	case makerTricks >= 3:
		g.teamScores[makers]++
		g.addEvent("Team %d made their bid for 1 point", makers+1)
	default:
		g.teamScores[defenders] += 2
		g.addEvent("Team %d was euchred. Team %d scores 2 points", makers+1, defenders+1)
	}

	for t := range 2 {
		if g.teamScores[t] >= g.opts.WinningScore {
			g.phase = PhaseGameComplete
			g.winningTeam = t
			g.addEvent("Team %d wins the game %d to %d", t+1, g.teamScores[t], g.teamScores[1-t])
			return
		}
	}
	g.dealerIndex = (g.dealerIndex + 1) % NumPlayers
	g.deal()
}

// bidderSeat validates that playerID is the current bidder.
func (g *Game) bidderSeat(playerID string) (int, error) {
	if g.phase != PhaseTrumpSelection {
		switch g.phase {
		case PhaseWaiting:
			return 0, apperrors.ErrGameNotStarted
		default:
			return 0, apperrors.ErrWrongPhase
		}
	}
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return 0, apperrors.ErrNoSuchPlayer
	}
	if seat != g.selectionIndex {
		return 0, apperrors.ErrNotYourTurn
	}
	return seat, nil
}

// sittingOut reports whether seat is the sidelined partner of a lone maker.
func (g *Game) sittingOut(seat int) bool {
	return g.goingAlone && seat == (g.trumpMaker+2)%NumPlayers
}

// activeCount is the number of seats playing tricks this round.
func (g *Game) activeCount() int {
	if g.goingAlone {
		return NumPlayers - 1
	}
	return NumPlayers
}

// nextActiveSeat returns the next seat clockwise from seat that is not
// sitting out.
func (g *Game) nextActiveSeat(seat int) int {
	for range NumPlayers {
		seat = (seat + 1) % NumPlayers
		if !g.sittingOut(seat) {
			return seat
		}
	}
	panic("euchre: no active seat")
}

func indexOfCard(hand []card.Card, c card.Card) int {
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	return -1
}
