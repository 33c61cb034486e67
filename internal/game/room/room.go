// Package room manages game rooms: creation, seating, AI opponents,
// reconnection and the fan-out of personalized game state.
package room

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/config"
	"github.com/dillonco/RobertaRoyale/internal/game/ai"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
	"github.com/dillonco/RobertaRoyale/internal/server/storage"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

const (
	roomCodeLength = 6
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// closedRoomRetention keeps the Redis snapshot of a closed room
	// around long enough to inspect after the fact.
	closedRoomRetention = 5 * time.Minute
)

// Room is one Euchre table and its connections.
type Room struct {
	Code      string
	Game      *euchre.Game
	CreatedAt time.Time

	// clients maps seated human player IDs to their live connection.
	// A nil value means the player is seated but disconnected.
	clients map[string]types.ClientInterface
	ais     map[string]*ai.Player

	lastActivity time.Time
	aiTimer      *time.Timer
	aiGen        uint64

	mu sync.RWMutex
}

// Manager owns all rooms and the player-to-room index.
type Manager struct {
	store       *storage.RedisStore // nil disables persistence
	gameCfg     config.GameConfig
	rooms       map[string]*Room
	playerRooms map[string]string // playerID -> room code
	log         *logrus.Entry
	mu          sync.RWMutex

	stop chan struct{}
}

// NewManager creates a room manager and starts its idle-room sweeper.
// store may be nil to run without Redis snapshots.
func NewManager(store *storage.RedisStore, gameCfg config.GameConfig) *Manager {
	rm := &Manager{
		store:       store,
		gameCfg:     gameCfg,
		rooms:       make(map[string]*Room),
		playerRooms: make(map[string]string),
		log:         logrus.WithField("component", "room"),
		stop:        make(chan struct{}),
	}
	go rm.cleanupLoop()
	return rm
}

// Stop terminates the sweeper.
func (rm *Manager) Stop() {
	close(rm.stop)
}

// GetRoom returns the room with the given code, or nil.
func (rm *Manager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// RoomOfPlayer returns the room a player is seated in, or nil.
func (rm *Manager) RoomOfPlayer(playerID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	code, ok := rm.playerRooms[playerID]
	if !ok {
		return nil
	}
	return rm.rooms[code]
}

// RoomCount returns the number of open rooms.
func (rm *Manager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// generateRoomCode draws codes until one is free. Caller holds rm.mu.
func (rm *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

func (r *Room) touch() {
	r.lastActivity = time.Now()
}

// cleanupLoop periodically sweeps idle rooms.
func (rm *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.cleanup()
		case <-rm.stop:
			return
		}
	}
}

// cleanup closes rooms with no activity past the configured timeout.
func (rm *Manager) cleanup() {
	timeout := rm.gameCfg.RoomTimeoutDuration()
	now := time.Now()

	rm.mu.RLock()
	var stale []*Room
	for _, room := range rm.rooms {
		room.mu.RLock()
		if now.Sub(room.lastActivity) > timeout {
			stale = append(stale, room)
		}
		room.mu.RUnlock()
	}
	rm.mu.RUnlock()

	for _, room := range stale {
		rm.log.WithField("room", room.Code).Info("closing idle room")
		rm.closeRoom(room, "room closed for inactivity")
	}
}
