package protocol

// --- Client request payloads ---

// PingPayload carries the client timestamp for round-trip measurement.
type PingPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// CreateRoomPayload requests a fresh room.
type CreateRoomPayload struct {
	PlayerName string `json:"player_name"`
}

// JoinRoomPayload requests a seat in an existing room.
type JoinRoomPayload struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

// TrumpSelectionPayload carries a bid: order_up, pass, or name_trump.
// Suit is only meaningful for name_trump.
type TrumpSelectionPayload struct {
	Action string `json:"action"`
	Suit   string `json:"suit,omitempty"`
}

// GoingAlonePayload carries the trump maker's going-alone decision.
type GoingAlonePayload struct {
	GoingAlone bool `json:"going_alone"`
}

// PlayCardPayload plays one card to the current trick.
type PlayCardPayload struct {
	Card CardInfo `json:"card"`
}

// DiscardCardPayload is the dealer's discard after picking up the turned card.
type DiscardCardPayload struct {
	Card CardInfo `json:"card"`
}

// --- Server response payloads ---

// ConnectedPayload confirms the durable identity bound to this connection.
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload echoes the client timestamp with the server clock.
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomCreatedPayload reports the outcome of create_room.
type RoomCreatedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"room_code,omitempty"`
}

// RoomJoinedPayload reports the outcome of join_room.
type RoomJoinedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"room_code,omitempty"`
}

// LeftRoomPayload confirms leave_room.
type LeftRoomPayload struct {
	Success bool `json:"success"`
}

// RoomClosedPayload tells everyone why their room went away.
type RoomClosedPayload struct {
	Reason string `json:"reason"`
}

// GameStatePayload wraps the personalized game state for one recipient.
type GameStatePayload struct {
	GameState *GameStateDTO `json:"game_state"`
}

// ReconnectedPayload restores a player's personalized state after reconnect.
type ReconnectedPayload struct {
	GameState *GameStateDTO `json:"game_state"`
}

// PlayerReconnectedPayload tells the rest of the room who came back.
type PlayerReconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PlayerDisconnectedPayload tells the rest of the room who dropped.
type PlayerDisconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// ErrorPayload carries a coded error to the offending client only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- Shared data structures ---

// CardInfo is the wire form of a card. Rank uses the face values 9-14
// (jack=11, queen=12, king=13, ace=14).
type CardInfo struct {
	Suit        string `json:"suit"`
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name,omitempty"`
}

// PlayerInfo is the public view of a seated player. Hands are never
// included here; only the recipient's own hand appears in GameStateDTO.
type PlayerInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    int    `json:"position"`
	IsAI        bool   `json:"is_ai"`
	IsConnected bool   `json:"is_connected"`
	HandSize    int    `json:"hand_size"`
}

// TrickCard is one (player, card) contribution to a trick, in play order.
type TrickCard struct {
	PlayerID string   `json:"player_id"`
	Card     CardInfo `json:"card"`
}

// TrickDTO is the public state of the trick in progress. Winner is empty
// until the trick has its final card.
type TrickDTO struct {
	Cards  []TrickCard `json:"cards"`
	Leader string      `json:"leader"`
	Winner string      `json:"winner,omitempty"`
}

// EventEntry is one line of the append-only, human-readable game log.
type EventEntry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// GameStateDTO is the personalized game state sent to one recipient after
// every mutation. Hand holds only the recipient's cards; TrumpCard is
// present only while trump is still undetermined.
type GameStateDTO struct {
	RoomCode       string       `json:"room_code"`
	Phase          string       `json:"phase"`
	PlayerID       string       `json:"player_id"`
	PlayerPosition int          `json:"player_position"`
	Players        []PlayerInfo `json:"players"`
	Hand           []CardInfo   `json:"hand"`

	DealerIndex               int       `json:"dealer_index"`
	TrumpSuit                 string    `json:"trump_suit,omitempty"`
	TrumpCard                 *CardInfo `json:"trump_card,omitempty"`
	TrumpSelectionRound       int       `json:"trump_selection_round"`
	TrumpSelectionPlayerIndex int       `json:"trump_selection_player_index"`
	CurrentPlayerIndex        int       `json:"current_player_index"`

	CurrentTrick         TrickDTO `json:"current_trick"`
	CompletedTricksCount int      `json:"completed_tricks_count"`
	TeamScores           [2]int   `json:"team_scores"`
	TeamTricks           [2]int   `json:"team_tricks"`
	TrumpMaker           string   `json:"trump_maker,omitempty"`
	GoingAlone           bool     `json:"going_alone"`

	Events []EventEntry `json:"events"`
}
