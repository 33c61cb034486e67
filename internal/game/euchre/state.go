package euchre

import (
	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/card"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/convert"
)

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Players returns the seated players in seat order.
func (g *Game) Players() []*Player {
	return g.players
}

// SeatOf looks up a player's seat by ID.
func (g *Game) SeatOf(playerID string) (int, bool) {
	for i, p := range g.players {
		if p.ID == playerID {
			return i, true
		}
	}
	return 0, false
}

// DealerIndex returns the seat of the current dealer.
func (g *Game) DealerIndex() int {
	return g.dealerIndex
}

// TrumpSuit returns the established trump suit, empty before then.
func (g *Game) TrumpSuit() card.Suit {
	return g.trumpSuit
}

// TeamScores returns the running game score.
func (g *Game) TeamScores() [2]int {
	return g.teamScores
}

// WinningTeam returns the winning team index, or -1 while the game runs.
func (g *Game) WinningTeam() int {
	return g.winningTeam
}

// GoingAlone reports whether the maker is playing without a partner.
func (g *Game) GoingAlone() bool {
	return g.goingAlone
}

// TrumpMakerID returns the ID of the player who called trump, or empty.
func (g *Game) TrumpMakerID() string {
	if g.trumpMaker < 0 {
		return ""
	}
	return g.players[g.trumpMaker].ID
}

// CurrentActorID returns the ID of the player the engine is waiting on,
// or empty when no single player holds the turn.
func (g *Game) CurrentActorID() string {
	switch g.phase {
	case PhaseTrumpSelection:
		return g.players[g.selectionIndex].ID
	case PhaseDealerDiscard:
		return g.players[g.dealerIndex].ID
	case PhasePlaying:
		return g.players[g.currentIndex].ID
	default:
		return ""
	}
}

// Snapshot is the read-only view a decision maker gets of its own seat.
type Snapshot struct {
	Phase          Phase
	Seat           int
	Hand           []card.Card
	TrumpSuit      card.Suit
	TrumpCard      card.Card
	TurnedDown     card.Suit
	SelectionRound int
	IsDealer       bool
	// MustNameTrump is set when stick-the-dealer leaves the dealer no
	// legal pass in round 2.
	MustNameTrump  bool
	TrumpMakerSeat int
	Trick          []PlayedCard
}

// SnapshotFor builds the decision view for one seated player.
func (g *Game) SnapshotFor(playerID string) (Snapshot, error) {
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return Snapshot{}, apperrors.ErrNoSuchPlayer
	}
	snap := Snapshot{
		Phase:          g.phase,
		Seat:           seat,
		Hand:           append([]card.Card(nil), g.players[seat].Hand...),
		TrumpSuit:      g.trumpSuit,
		TrumpCard:      g.trumpCard,
		TurnedDown:     g.turnedDown,
		SelectionRound: g.selectionRound,
		IsDealer:       seat == g.dealerIndex,
		TrumpMakerSeat: g.trumpMaker,
		Trick:          append([]PlayedCard(nil), g.trick...),
	}
	snap.MustNameTrump = g.phase == PhaseTrumpSelection &&
		g.selectionRound == 2 && g.opts.StickTheDealer && seat == g.dealerIndex
	return snap, nil
}

// StateFor builds the personalized wire state for one recipient. Only
// the recipient's own hand is included; the turned card is visible only
// while trump is still undetermined. RoomCode and per-player connection
// status are filled in by the room layer.
func (g *Game) StateFor(playerID string) *protocol.GameStateDTO {
	seat, seated := g.SeatOf(playerID)

	dto := &protocol.GameStateDTO{
		Phase:                     g.phase.String(),
		PlayerID:                  playerID,
		DealerIndex:               g.dealerIndex,
		TrumpSuit:                 string(g.trumpSuit),
		TrumpSelectionRound:       g.selectionRound,
		TrumpSelectionPlayerIndex: g.selectionIndex,
		CurrentPlayerIndex:        g.currentIndex,
		CompletedTricksCount:      g.completedTricks,
		TeamScores:                g.teamScores,
		TeamTricks:                g.teamTricks,
		TrumpMaker:                g.TrumpMakerID(),
		GoingAlone:                g.goingAlone,
	}
	if seated {
		dto.PlayerPosition = seat
		dto.Hand = convert.CardsToInfos(g.players[seat].Hand)
	}

	dto.Players = make([]protocol.PlayerInfo, len(g.players))
	for i, p := range g.players {
		dto.Players[i] = protocol.PlayerInfo{
			ID:          p.ID,
			Name:        p.Name,
			Position:    i,
			IsAI:        p.IsAI,
			IsConnected: true,
			HandSize:    len(p.Hand),
		}
	}

	// Keep the turned card secret once trump is settled.
	if g.phase == PhaseTrumpSelection && g.selectionRound == 1 {
		info := convert.CardToInfo(g.trumpCard)
		dto.TrumpCard = &info
	}

	dto.CurrentTrick = g.trickDTO()

	dto.Events = make([]protocol.EventEntry, len(g.events))
	for i, ev := range g.events {
		dto.Events[i] = protocol.EventEntry{
			Time:    ev.Time.Format("15:04:05"),
			Message: ev.Message,
		}
	}
	return dto
}

// trickDTO shows the trick in progress, or the last completed trick
// with its winner while the table waits for the next lead.
func (g *Game) trickDTO() protocol.TrickDTO {
	cards := g.trick
	winner := ""
	if len(cards) == 0 && g.lastTrickWinner >= 0 {
		cards = g.lastTrick
		winner = g.players[g.lastTrickWinner].ID
	}

	dto := protocol.TrickDTO{
		Cards:  make([]protocol.TrickCard, len(cards)),
		Winner: winner,
	}
	if len(cards) > 0 {
		dto.Leader = g.players[cards[0].Seat].ID
	} else if g.phase == PhasePlaying {
		dto.Leader = g.players[g.trickLeader].ID
	}
	for i, pc := range cards {
		dto.Cards[i] = protocol.TrickCard{
			PlayerID: g.players[pc.Seat].ID,
			Card:     convert.CardToInfo(pc.Card),
		}
	}
	return dto
}
