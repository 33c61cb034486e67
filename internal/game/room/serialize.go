package room

import (
	"github.com/dillonco/RobertaRoyale/internal/server/storage"
)

// ToRoomData converts the room into its Redis snapshot form.
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g := r.Game
	data := &storage.RoomData{
		Code:       r.Code,
		Phase:      g.Phase().String(),
		Players:    make([]storage.PlayerData, 0, g.PlayerCount()),
		DealerIdx:  g.DealerIndex(),
		TrumpSuit:  string(g.TrumpSuit()),
		TeamScores: g.TeamScores(),
		GoingAlone: g.GoingAlone(),
		CreatedAt:  r.CreatedAt.Unix(),
	}

	for seat, p := range g.Players() {
		data.Players = append(data.Players, storage.PlayerData{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     seat,
			IsAI:     p.IsAI,
			HandSize: len(p.Hand),
		})
	}
	return data
}
