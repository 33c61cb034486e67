package types

import (
	"github.com/dillonco/RobertaRoyale/internal/protocol"
)

// ServerInterface exposes the server to lower layers without a cycle.
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}

// ClientInterface is one connected player, human side of the wire.
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}
