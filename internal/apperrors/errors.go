package apperrors

import (
	"github.com/dillonco/RobertaRoyale/internal/protocol"
)

// GameError is the coded error shared by the room layer and the game engine.
// Handlers unwrap it with errors.As and forward the code to the client.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Room lifecycle errors.
var (
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "room not found"}
	ErrRoomFull     = &GameError{Code: protocol.ErrCodeRoomFull, Message: "room is full"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "you are not in a room"}
	ErrNoSuchPlayer = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "player is not seated in this game"}
)

// Illegal-action errors: wrong actor or wrong phase. Engine state is
// unchanged when one of these is returned.
var (
	ErrGameNotStarted     = &GameError{Code: protocol.ErrCodeGameNotStarted, Message: "the game has not started"}
	ErrGameAlreadyStarted = &GameError{Code: protocol.ErrCodeGameStarted, Message: "the game has already started"}
	ErrGameNotOver        = &GameError{Code: protocol.ErrCodeGameNotOver, Message: "the game is still in progress"}
	ErrNeedFourPlayers    = &GameError{Code: protocol.ErrCodeNeedFourPlayers, Message: "exactly four seated players are required"}
	ErrNotYourTurn        = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "it is not your turn"}
	ErrWrongPhase         = &GameError{Code: protocol.ErrCodeWrongPhase, Message: "that action is not valid in the current phase"}
	ErrNotTrumpMaker      = &GameError{Code: protocol.ErrCodeNotTrumpMaker, Message: "only the trump maker may decide to go alone"}
)

// Rule violation errors: the action shape is fine but breaks a game rule.
var (
	ErrCardNotHeld     = &GameError{Code: protocol.ErrCodeCardNotHeld, Message: "you do not hold that card"}
	ErrMustFollowSuit  = &GameError{Code: protocol.ErrCodeMustFollowSuit, Message: "you must follow the led suit"}
	ErrSuitTurnedDown  = &GameError{Code: protocol.ErrCodeSuitTurnedDown, Message: "that suit was turned down and cannot be named"}
	ErrInvalidSuit     = &GameError{Code: protocol.ErrCodeInvalidSuit, Message: "unknown suit"}
	ErrDealerMustName  = &GameError{Code: protocol.ErrCodeDealerMustName, Message: "the dealer must name a trump suit"}
	ErrAloneDecided    = &GameError{Code: protocol.ErrCodeAloneDecided, Message: "the going-alone decision has already been made"}
	ErrTooLateForAlone = &GameError{Code: protocol.ErrCodeTooLateForAlone, Message: "going alone must be declared before the first card is played"}
	ErrNoReconnection  = &GameError{Code: protocol.ErrCodeNoReconnection, Message: "no game to reconnect to"}
)
