package score

import (
	"fmt"
	"io"
	"log"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

// Replay plays inputs back against a fresh session of chart and returns the
// final statistics. The session is ticked in steps of step, which must be
// positive.
func Replay(chart *game.Chart, d game.Difficulty, inputs []game.Input, step time.Duration) (game.Stats, error) {
	if step <= 0 {
		return game.Stats{}, fmt.Errorf("replay step must be positive, got %v", step)
	}
	g := game.New(d)
	g.SetLogger(log.New(io.Discard, "", 0))
	if err := g.Load(chart); nil != err {
		return game.Stats{}, err
	}
	if err := g.Start(); nil != err {
		return game.Stats{}, err
	}

	advance := func(to time.Duration) {
		for g.Now() < to && g.State() == game.Playing {
			dt := step
			if g.Now()+dt > to {
				dt = to - g.Now()
			}
			g.Tick(dt)
			g.Events()
		}
	}

	for _, in := range inputs {
		advance(in.At)
		g.Judge(in.Track, in.Action)
	}
	advance(chart.Length() + game.MissWindow + step)
	return g.Stats(), nil
}
