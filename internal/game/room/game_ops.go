package room

import (
	"github.com/google/uuid"

	"github.com/dillonco/RobertaRoyale/internal/apperrors"
	"github.com/dillonco/RobertaRoyale/internal/game/ai"
	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
	"github.com/dillonco/RobertaRoyale/internal/types"
)

// AddAIPlayer seats a computer opponent in the client's room.
func (rm *Manager) AddAIPlayer(client types.ClientInterface) error {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return apperrors.ErrNotInRoom
	}

	room.mu.Lock()
	personality := rm.pickPersonality(room)
	id := "ai-" + uuid.NewString()
	if _, err := room.Game.AddPlayer(id, personality.Name, true); err != nil {
		room.mu.Unlock()
		return err
	}
	room.ais[id] = ai.NewPlayer(id, personality)
	room.touch()
	room.mu.Unlock()

	rm.mu.Lock()
	rm.playerRooms[id] = room.Code
	rm.mu.Unlock()

	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
	return nil
}

// pickPersonality prefers a personality whose name is not already at
// the table. Caller holds room.mu.
func (rm *Manager) pickPersonality(room *Room) ai.Personality {
	taken := make(map[string]bool)
	for _, p := range room.Game.Players() {
		taken[p.Name] = true
	}
	for _, p := range ai.Personalities {
		if !taken[p.Name] {
			return p
		}
	}
	return ai.RandomPersonality()
}

// StartGame deals the first hand of the client's room.
func (rm *Manager) StartGame(client types.ClientInterface) error {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return apperrors.ErrNotInRoom
	}

	room.mu.Lock()
	err := room.Game.Start()
	room.touch()
	room.mu.Unlock()
	if err != nil {
		return err
	}

	rm.log.WithField("room", room.Code).Info("game started")
	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
	rm.ScheduleAITurn(room)
	return nil
}

// NewGame starts a rematch at the same table after a finished game.
func (rm *Manager) NewGame(client types.ClientInterface) error {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return apperrors.ErrNotInRoom
	}

	room.mu.Lock()
	err := room.Game.Restart()
	room.touch()
	room.mu.Unlock()
	if err != nil {
		return err
	}

	rm.log.WithField("room", room.Code).Info("rematch started")
	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
	rm.ScheduleAITurn(room)
	return nil
}

// HandleAction applies one game action from a human client. On success
// everyone gets fresh state and any AI turn is scheduled; on error the
// caller reports back to the offending client alone.
func (rm *Manager) HandleAction(client types.ClientInterface, action euchre.Action) error {
	room := rm.RoomOfPlayer(client.GetID())
	if room == nil {
		return apperrors.ErrNotInRoom
	}

	room.mu.Lock()
	err := room.Game.Apply(client.GetID(), action)
	room.touch()
	room.mu.Unlock()
	if err != nil {
		return err
	}

	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
	rm.ScheduleAITurn(room)
	return nil
}
