package protocol

import "encoding/json"

// Message is the envelope for every frame on the wire: a type discriminator
// plus a raw payload decoded by the handler for that type.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType is the closed set of message kinds.
type MessageType string

// Client → server message types.
const (
	// Connection
	MsgPing              MessageType = "ping"
	MsgCheckReconnection MessageType = "check_reconnection"

	// Room operations
	MsgCreateRoom  MessageType = "create_room"
	MsgJoinRoom    MessageType = "join_room"
	MsgLeaveRoom   MessageType = "leave_room"
	MsgAddAIPlayer MessageType = "add_ai_player"
	MsgStartGame   MessageType = "start_game"
	MsgNewGame     MessageType = "new_game"

	// Game operations
	MsgTrumpSelection MessageType = "trump_selection"
	MsgGoingAlone     MessageType = "going_alone"
	MsgPlayCard       MessageType = "play_card"
	MsgDiscardCard    MessageType = "discard_card"
)

// Server → client message types.
const (
	// Connection
	MsgConnected                MessageType = "connected"
	MsgPong                     MessageType = "pong"
	MsgReconnected              MessageType = "reconnected"
	MsgNoReconnectionAvailable  MessageType = "no_reconnection_available"
	MsgPlayerReconnected        MessageType = "player_reconnected"
	MsgPlayerDisconnected       MessageType = "player_disconnected"

	// Room
	MsgRoomCreated MessageType = "room_created"
	MsgRoomJoined  MessageType = "room_joined"
	MsgRoomClosed  MessageType = "room_closed"
	MsgLeftRoom    MessageType = "left_room"

	// Game flow: a single personalized state push after every mutation.
	MsgGameState MessageType = "game_state"

	// Errors
	MsgError MessageType = "error"
)

// Trump selection actions carried by MsgTrumpSelection.
const (
	TrumpActionOrderUp   = "order_up"
	TrumpActionPass      = "pass"
	TrumpActionNameTrump = "name_trump"
)
