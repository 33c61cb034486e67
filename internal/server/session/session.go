// Package session tracks durable player identities across connections,
// which is what makes reconnection after a network drop possible.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dillonco/RobertaRoyale/internal/server/storage"
)

// sessionExpireTime drops sessions that stayed offline this long.
const sessionExpireTime = 30 * time.Minute

// PlayerSession is the durable record for one player identity.
type PlayerSession struct {
	PlayerID   string
	PlayerName string
	RoomCode   string

	DisconnectedAt time.Time
	IsOnline       bool

	mu sync.RWMutex
}

// Manager owns all player sessions. With a store attached, every
// mutation is mirrored to Redis so identities survive a restart.
type Manager struct {
	sessions map[string]*PlayerSession // playerID -> session
	mu       sync.RWMutex

	store *storage.RedisStore

	stop chan struct{}
}

// NewManager creates a session manager and starts its cleanup loop.
// store may be nil to run memory-only.
func NewManager(store *storage.RedisStore) *Manager {
	sm := &Manager{
		sessions: make(map[string]*PlayerSession),
		store:    store,
		stop:     make(chan struct{}),
	}
	go sm.cleanupLoop()
	return sm
}

// Stop terminates the cleanup loop.
func (sm *Manager) Stop() {
	close(sm.stop)
}

// Bind creates or refreshes the session for a connecting player. An
// existing session keeps its room binding so the player can reconnect.
// An identity unknown in memory is looked up in the store first, so a
// name chosen before a server restart is not lost.
func (sm *Manager) Bind(playerID, playerName string) *PlayerSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, ok := sm.sessions[playerID]; ok {
		session.mu.Lock()
		if playerName != "" {
			session.PlayerName = playerName
		}
		session.IsOnline = true
		session.DisconnectedAt = time.Time{}
		session.mu.Unlock()
		sm.persistAsync(session)
		return session
	}

	session := &PlayerSession{
		PlayerID:   playerID,
		PlayerName: playerName,
		IsOnline:   true,
	}
	if sm.store != nil {
		if data, err := sm.store.LoadSession(context.Background(), playerID); err == nil && data != nil {
			if session.PlayerName == "" {
				session.PlayerName = data.PlayerName
			}
		}
	}
	sm.sessions[playerID] = session
	sm.persistAsync(session)
	return session
}

// Get returns the session for playerID, or nil.
func (sm *Manager) Get(playerID string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[playerID]
}

// SetOffline marks the player disconnected and stamps the time.
func (sm *Manager) SetOffline(playerID string) {
	sm.mu.RLock()
	session, ok := sm.sessions[playerID]
	sm.mu.RUnlock()

	if ok {
		session.mu.Lock()
		session.IsOnline = false
		session.DisconnectedAt = time.Now()
		session.mu.Unlock()
		sm.persistAsync(session)
	}
}

// SetOnline marks the player connected again.
func (sm *Manager) SetOnline(playerID string) {
	sm.mu.RLock()
	session, ok := sm.sessions[playerID]
	sm.mu.RUnlock()

	if ok {
		session.mu.Lock()
		session.IsOnline = true
		session.DisconnectedAt = time.Time{}
		session.mu.Unlock()
		sm.persistAsync(session)
	}
}

// SetRoom records which room the player is seated in. An empty code
// clears the binding.
func (sm *Manager) SetRoom(playerID, roomCode string) {
	sm.mu.RLock()
	session, ok := sm.sessions[playerID]
	sm.mu.RUnlock()

	if ok {
		session.mu.Lock()
		session.RoomCode = roomCode
		session.mu.Unlock()
		sm.persistAsync(session)
	}
}

// RoomOf returns the room the player is bound to, or empty.
func (sm *Manager) RoomOf(playerID string) string {
	sm.mu.RLock()
	session, ok := sm.sessions[playerID]
	sm.mu.RUnlock()

	if !ok {
		return ""
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.RoomCode
}

// IsOnline reports whether the player currently has a live connection.
func (sm *Manager) IsOnline(playerID string) bool {
	sm.mu.RLock()
	session, ok := sm.sessions[playerID]
	sm.mu.RUnlock()

	if !ok {
		return false
	}
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.IsOnline
}

// Delete removes the session entirely.
func (sm *Manager) Delete(playerID string) {
	sm.mu.Lock()
	delete(sm.sessions, playerID)
	sm.mu.Unlock()
	sm.deleteAsync(playerID)
}

// persistAsync snapshots the session to Redis without blocking callers.
func (sm *Manager) persistAsync(session *PlayerSession) {
	if sm.store == nil {
		return
	}
	session.mu.RLock()
	data := &storage.PlayerSessionData{
		PlayerID:   session.PlayerID,
		PlayerName: session.PlayerName,
		RoomCode:   session.RoomCode,
		IsOnline:   session.IsOnline,
	}
	if !session.DisconnectedAt.IsZero() {
		data.DisconnectedAt = session.DisconnectedAt.Unix()
	}
	session.mu.RUnlock()
	go func() { _ = sm.store.SaveSession(context.Background(), data) }()
}

func (sm *Manager) deleteAsync(playerID string) {
	if sm.store == nil {
		return
	}
	go func() { _ = sm.store.DeleteSession(context.Background(), playerID) }()
}

func (sm *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanup()
		case <-sm.stop:
			return
		}
	}
}

func (sm *Manager) cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for playerID, session := range sm.sessions {
		session.mu.RLock()
		expired := !session.IsOnline && now.Sub(session.DisconnectedAt) > sessionExpireTime
		session.mu.RUnlock()
		if expired {
			delete(sm.sessions, playerID)
			sm.deleteAsync(playerID)
		}
	}
}
