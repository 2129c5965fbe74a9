package game

import "time"

type EventKind uint8

const (
	EventJudged EventKind = iota
	EventTrackPressed
	EventTrackReleased
	EventStateChanged
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventJudged:
		return "judged"
	case EventTrackPressed:
		return "track pressed"
	case EventTrackReleased:
		return "track released"
	case EventStateChanged:
		return "state changed"
	case EventGameOver:
		return "game over"
	}
	return "unknown"
}

// Event is something that happened during a tick or an input call.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	Note   NoteID
	Type   NoteType
	Track  int
	Result Result
	Offset time.Duration
	Time   time.Duration
	Score  int
	Combo  int
	State  State
	Stats  *Stats
}

func (g *GameState) emit(e Event) {
	e.Time = g.now
	g.events = append(g.events, e)
}

// Events drains the queued events in the order they happened
func (g *GameState) Events() []Event {
	events := g.events
	g.events = nil
	return events
}

func (g *GameState) TrackPressed(index int, at time.Duration) {
	g.emit(Event{Kind: EventTrackPressed, Track: index})
}

func (g *GameState) TrackReleased(index int) {
	g.emit(Event{Kind: EventTrackReleased, Track: index})
}
