package euchre

// Phase is the engine's lifecycle state. Transitions only move forward
// within a round; completed rounds either deal the next round or end
// the game.
type Phase int

const (
	// PhaseWaiting means the table is still filling up.
	PhaseWaiting Phase = iota
	// PhaseTrumpSelection covers both bidding rounds.
	PhaseTrumpSelection
	// PhaseDealerDiscard follows an order-up: the dealer holds six
	// cards and must discard one.
	PhaseDealerDiscard
	// PhasePlaying is trick play.
	PhasePlaying
	// PhaseGameComplete means a team reached the winning score.
	PhaseGameComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting_for_players"
	case PhaseTrumpSelection:
		return "trump_selection"
	case PhaseDealerDiscard:
		return "dealer_discard"
	case PhasePlaying:
		return "playing"
	case PhaseGameComplete:
		return "game_complete"
	default:
		return "unknown"
	}
}
