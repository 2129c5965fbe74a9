package game

import (
	"io"
	"log"
	"testing"
	"time"
)

const ms = time.Millisecond

func newTestState(t *testing.T, d Difficulty, chart *Chart) *GameState {
	t.Helper()
	g := New(d)
	g.SetLogger(log.New(io.Discard, "", 0))
	if err := g.Load(chart); nil != err {
		t.Fatalf("load: %v", err)
	}
	return g
}

func startedState(t *testing.T, chart *Chart) *GameState {
	t.Helper()
	g := newTestState(t, Normal, chart)
	if err := g.Start(); nil != err {
		t.Fatalf("start: %v", err)
	}
	return g
}

// advance ticks in steps until now reaches to
func advance(g *GameState, to, step time.Duration) {
	for g.Now() < to && g.State() == Playing {
		dt := step
		if g.Now()+dt > to {
			dt = to - g.Now()
		}
		g.Tick(dt)
	}
}

func chartOf(notes ...NoteDescriptor) *Chart {
	return &Chart{Meta: Metadata{ID: "test"}, Notes: notes}
}
