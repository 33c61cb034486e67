package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/ai"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
	"github.com/dillonco/RobertaRoyale/internal/protocol/codec"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

// CreateRoom opens a fresh room with the client in seat 0.
func (rm *Manager) CreateRoom(client types.ClientInterface) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code := rm.generateRoomCode()
	room := &Room{
		Code: code,
		Game: euchre.New(euchre.Options{
			WinningScore:   rm.gameCfg.WinningScore,
			StickTheDealer: rm.gameCfg.StickTheDealer,
		}),
		CreatedAt:    time.Now(),
		clients:      make(map[string]types.ClientInterface),
		ais:          make(map[string]*ai.Player),
		lastActivity: time.Now(),
	}

	if _, err := room.Game.AddPlayer(client.GetID(), client.GetName(), false); err != nil {
		return nil, err
	}
	room.clients[client.GetID()] = client
	client.SetRoom(code)

	rm.rooms[code] = room
	rm.playerRooms[client.GetID()] = code

	rm.saveRoomAsync(room)
	rm.log.WithFields(logrus.Fields{"room": code, "player": client.GetName()}).Info("room created")
	return room, nil
}

// JoinRoom seats the client in an existing room.
func (rm *Manager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	_, err := room.Game.AddPlayer(client.GetID(), client.GetName(), false)
	if err != nil {
		room.mu.Unlock()
		return nil, err
	}
	room.clients[client.GetID()] = client
	room.touch()
	room.mu.Unlock()

	client.SetRoom(code)
	rm.playerRooms[client.GetID()] = code

	rm.saveRoomAsync(room)
	rm.log.WithFields(logrus.Fields{"room": code, "player": client.GetName()}).Info("player joined")
	return room, nil
}

// LeaveRoom removes the client from their room. Before the game starts
// the seat is freed; once cards are dealt the whole table folds, since
// a four-handed game cannot continue short a seat.
func (rm *Manager) LeaveRoom(client types.ClientInterface) {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		client.SetRoom("")
		return
	}

	room.mu.Lock()
	inProgress := room.Game.Phase() != euchre.PhaseWaiting
	room.mu.Unlock()

	if inProgress {
		rm.log.WithFields(logrus.Fields{"room": room.Code, "player": client.GetName()}).Info("player left mid-game")
		rm.closeRoom(room, "a player left the game")
		return
	}

	room.mu.Lock()
	_ = room.Game.RemovePlayer(client.GetID())
	delete(room.clients, client.GetID())
	empty := len(room.clients) == 0
	room.touch()
	room.mu.Unlock()

	client.SetRoom("")
	rm.mu.Lock()
	delete(rm.playerRooms, client.GetID())
	rm.mu.Unlock()

	if empty {
		rm.deleteRoom(room)
		return
	}
	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
}

// Disconnect marks the client's seat offline. In the lobby the seat is
// given up; in a running game the seat is held for reconnection and the
// rest of the table is told.
func (rm *Manager) Disconnect(client types.ClientInterface) {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.Game.Phase() == euchre.PhaseWaiting {
		room.mu.Unlock()
		rm.LeaveRoom(client)
		return
	}
	room.clients[client.GetID()] = nil
	room.touch()
	room.mu.Unlock()

	rm.log.WithFields(logrus.Fields{"room": room.Code, "player": client.GetName()}).Info("player disconnected")
	room.broadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerDisconnected, protocol.PlayerDisconnectedPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))
}

// CheckReconnection reattaches a returning player to their running game.
// It is idempotent: repeated calls from the same live connection simply
// return the room again.
func (rm *Manager) CheckReconnection(client types.ClientInterface) (*Room, error) {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return nil, apperrors.ErrNoReconnection
	}

	room.mu.Lock()
	if room.Game.Phase() == euchre.PhaseWaiting {
		room.mu.Unlock()
		return nil, apperrors.ErrNoReconnection
	}
	wasOffline := room.clients[client.GetID()] == nil
	room.clients[client.GetID()] = client
	room.touch()
	room.mu.Unlock()

	client.SetRoom(room.Code)
	if wasOffline {
		rm.log.WithFields(logrus.Fields{"room": room.Code, "player": client.GetName()}).Info("player reconnected")
		room.broadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerReconnected, protocol.PlayerReconnectedPayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
		}))
	}
	return room, nil
}

// closeRoom notifies everyone, detaches all players and deletes the room.
func (rm *Manager) closeRoom(room *Room, reason string) {
	room.mu.Lock()
	if room.aiTimer != nil {
		room.aiTimer.Stop()
	}
	room.aiGen++
	clients := make([]types.ClientInterface, 0, len(room.clients))
	ids := make([]string, 0, len(room.clients)+len(room.ais))
	for id, c := range room.clients {
		ids = append(ids, id)
		if c != nil {
			clients = append(clients, c)
		}
	}
	for id := range room.ais {
		ids = append(ids, id)
	}
	room.mu.Unlock()

	msg := codec.MustNewMessage(protocol.MsgRoomClosed, protocol.RoomClosedPayload{Reason: reason})
	for _, c := range clients {
		c.SendMessage(msg)
		c.SetRoom("")
	}

	rm.mu.Lock()
	for _, id := range ids {
		delete(rm.playerRooms, id)
	}
	delete(rm.rooms, room.Code)
	rm.mu.Unlock()

	// Keep the snapshot around briefly for post-mortems
	if rm.store != nil {
		go func() { _ = rm.store.SetRoomExpiration(context.Background(), room.Code, closedRoomRetention) }()
	}
}

// deleteRoom drops an already-empty room.
func (rm *Manager) deleteRoom(room *Room) {
	rm.mu.Lock()
	delete(rm.rooms, room.Code)
	for _, id := range rm.roomPlayerIDs(room) {
		delete(rm.playerRooms, id)
	}
	rm.mu.Unlock()

	room.mu.Lock()
	if room.aiTimer != nil {
		room.aiTimer.Stop()
	}
	room.aiGen++
	room.mu.Unlock()

	if rm.store != nil {
		go func() { _ = rm.store.DeleteRoom(context.Background(), room.Code) }()
	}
	rm.log.WithField("room", room.Code).Info("room deleted")
}

// RecoverRooms inspects room snapshots left over from a previous run.
// Hands are not persisted, so interrupted games cannot resume; the
// sweep logs what was lost and clears the stale snapshots.
func (rm *Manager) RecoverRooms(ctx context.Context) {
	if rm.store == nil {
		return
	}

	codes, err := rm.store.GetAllRoomCodes(ctx)
	if err != nil {
		rm.log.WithError(err).Warn("room recovery scan failed")
		return
	}

	for _, code := range codes {
		data, err := rm.store.LoadRoom(ctx, code)
		if err != nil || data == nil {
			continue
		}
		rm.log.WithFields(logrus.Fields{
			"room":    code,
			"phase":   data.Phase,
			"players": len(data.Players),
		}).Info("discarding interrupted room")
		_ = rm.store.DeleteRoom(ctx, code)
	}
}

func (rm *Manager) roomPlayerIDs(room *Room) []string {
	room.mu.RLock()
	defer room.mu.RUnlock()
	ids := make([]string, 0, len(room.clients)+len(room.ais))
	for id := range room.clients {
		ids = append(ids, id)
	}
	for id := range room.ais {
		ids = append(ids, id)
	}
	return ids
}
