package euchre

import (
	"fmt"
	"time"
)

// maxEvents bounds the in-memory game log.
const maxEvents = 100

// Event is one line of the human-readable game log.
type Event struct {
	Time    time.Time
	Message string
}

func (g *Game) addEvent(format string, args ...any) {
	g.events = append(g.events, Event{
		Time:    time.Now(),
		Message: fmt.Sprintf(format, args...),
	})
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
}

// Events returns the game log, oldest first.
func (g *Game) Events() []Event {
	return g.events
}
