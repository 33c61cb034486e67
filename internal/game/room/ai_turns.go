package room

import (
	"math/rand/v2"
	"time"

	"github.com/dillonco/RobertaRoyale/internal/game/euchre"
)

// ScheduleAITurn arms a delayed move when the engine is waiting on an
// AI seat. The per-room generation counter invalidates stale timers:
// any state change bumps it, so a fired timer re-checks that it is
// still the latest schedule before acting.
func (rm *Manager) ScheduleAITurn(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()

	actorID := room.Game.CurrentActorID()
	if _, isAI := room.ais[actorID]; !isAI {
		return
	}

	room.aiGen++
	gen := room.aiGen
	if room.aiTimer != nil {
		room.aiTimer.Stop()
	}

	delay := rm.gameCfg.AIDelay()
	if jitter := rm.gameCfg.AIDelayJitter(); jitter > 0 {
		delay += rand.N(jitter)
	}
	room.aiTimer = time.AfterFunc(delay, func() {
		rm.runAITurn(room, gen)
	})
}

// runAITurn executes one AI move, then reschedules for the next actor.
func (rm *Manager) runAITurn(room *Room, gen uint64) {
	room.mu.Lock()
	if room.aiGen != gen {
		room.mu.Unlock()
		return
	}

	actorID := room.Game.CurrentActorID()
	aiPlayer, isAI := room.ais[actorID]
	if !isAI {
		room.mu.Unlock()
		return
	}

	snap, err := room.Game.SnapshotFor(actorID)
	if err != nil {
		room.mu.Unlock()
		return
	}
	action := aiPlayer.Decide(snap)
	if action == nil {
		room.mu.Unlock()
		return
	}

	if err := room.Game.Apply(actorID, action); err != nil {
		// The engine and AI disagree on legality. Log loudly; the room
		// stays consistent because the action was rejected.
		room.mu.Unlock()
		rm.log.WithError(err).WithField("room", room.Code).Error("ai produced illegal action")
		return
	}

	// A maker weighs going alone right after calling trump, while the
	// decision window is still open.
	if madeTrump(action) {
		makerSnap, err := room.Game.SnapshotFor(actorID)
		if err == nil {
			alone := aiPlayer.ShouldGoAlone(makerSnap.Hand, makerSnap.TrumpSuit)
			_ = room.Game.Apply(actorID, euchre.GoAloneAction{Alone: alone})
		}
	}
	room.touch()
	room.mu.Unlock()

	rm.saveRoomAsync(room)
	rm.BroadcastState(room)
	rm.ScheduleAITurn(room)
}

func madeTrump(action euchre.Action) bool {
	switch action.(type) {
	case euchre.OrderUpAction, euchre.NameTrumpAction:
		return true
	default:
		return false
	}
}
