package protocol

// Error codes. 1xxx protocol, 2xxx room lifecycle, 3xxx game rules.
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	ErrCodeRoomNotFound   = 2001
	ErrCodeRoomFull       = 2002
	ErrCodeNotInRoom      = 2003
	ErrCodeGameStarted    = 2004
	ErrCodeNoReconnection = 2005

	ErrCodeGameNotStarted  = 3001
	ErrCodeNotYourTurn     = 3002
	ErrCodeWrongPhase      = 3003
	ErrCodeCardNotHeld     = 3004
	ErrCodeMustFollowSuit  = 3005
	ErrCodeSuitTurnedDown  = 3006
	ErrCodeDealerMustName  = 3007
	ErrCodeNotTrumpMaker   = 3008
	ErrCodeAloneDecided    = 3009
	ErrCodeTooLateForAlone = 3010
	ErrCodeInvalidSuit     = 3011
	ErrCodeNeedFourPlayers = 3012
	ErrCodeGameNotOver     = 3013
)

// ErrorMessages maps codes to their default client-facing text.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:    "unknown error",
	ErrCodeInvalidMsg: "invalid message format",

	ErrCodeRoomNotFound:   "room not found",
	ErrCodeRoomFull:       "room is full",
	ErrCodeNotInRoom:      "you are not in a room",
	ErrCodeGameStarted:    "the game has already started",
	ErrCodeNoReconnection: "no game to reconnect to",

	ErrCodeGameNotStarted:  "the game has not started",
	ErrCodeNotYourTurn:     "it is not your turn",
	ErrCodeWrongPhase:      "that action is not valid right now",
	ErrCodeCardNotHeld:     "you do not hold that card",
	ErrCodeMustFollowSuit:  "you must follow the led suit",
	ErrCodeSuitTurnedDown:  "that suit was turned down",
	ErrCodeDealerMustName:  "the dealer must name a trump suit",
	ErrCodeNotTrumpMaker:   "only the trump maker may go alone",
	ErrCodeAloneDecided:    "going alone has already been decided",
	ErrCodeTooLateForAlone: "too late to go alone",
	ErrCodeInvalidSuit:     "unknown suit",
	ErrCodeNeedFourPlayers: "exactly four players are required",
	ErrCodeGameNotOver:     "the game is still in progress",
}
