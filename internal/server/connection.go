package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

// handleWebSocket upgrades the connection and binds the durable player
// identity. Clients reconnect by presenting the same player_id query
// parameter; a missing one gets a fresh identity.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	name := r.URL.Query().Get("name")
	if name == "" && s.sessionManager.Get(playerID) == nil {
		name = GenerateNickname()
	}
	session := s.sessionManager.Bind(playerID, name)

	client := NewClient(s, conn, playerID, session.PlayerName)

	// A second connection with the same identity supersedes the first
	if old := s.GetClientByID(playerID); old != nil {
		old.Close()
	}
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: client.Name,
	}))

	s.log.WithFields(logrus.Fields{"player": client.ID, "name": client.Name}).Info("player connected")

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth answers liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	// Only drop the entry if it still belongs to this connection, a
	// takeover may already have replaced it
	if s.clients[client.ID] == client {
		delete(s.clients, client.ID)
		s.log.WithField("player", client.ID).Info("player disconnected")
	}
}

// Interface implementations for types.ServerInterface

// GetOnlineCount returns the number of live connections.
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetClientByID returns the live connection for a player, or nil.
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

// RegisterClient records a live connection under a player ID.
func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.clients[id] = c
	}
}

// UnregisterClient drops a live connection by player ID.
func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}
