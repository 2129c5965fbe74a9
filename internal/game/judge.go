package game

import "time"

type Action uint8

const (
	Press Action = iota
	Release
)

func (a Action) String() string {
	if a == Release {
		return "release"
	}
	return "press"
}

// Judgement is the result of judging one note
type Judgement struct {
	Note   NoteID
	Track  int
	Type   NoteType
	Result Result
	Offset time.Duration // Signed, negative when early
}

// Judge applies a press or release on track at the current time.
// A press judges the closest unhit note within the miss window, drag notes
// excluded. A release breaks a hold that is still being held.
func (g *GameState) Judge(track int, action Action) (Judgement, bool) {
	if g.state != Playing {
		return Judgement{}, false
	}
	if track < 0 || track >= NumTracks {
		g.logger.Printf("invalid track index: %d", track)
		return Judgement{}, false
	}

	switch action {
	case Press:
		g.tracks[track].Press(g.now)
		return g.judgePress(track)
	case Release:
		j, ok := g.breakHold(track)
		g.tracks[track].Release()
		return j, ok
	}
	g.logger.Printf("invalid action: %d", action)
	return Judgement{}, false
}

func (g *GameState) Press(track int) (Judgement, bool) {
	return g.Judge(track, Press)
}

func (g *GameState) Release(track int) (Judgement, bool) {
	return g.Judge(track, Release)
}

func (g *GameState) judgePress(track int) (Judgement, bool) {
	g.rebuildCache()

	var target *Note
	closest := MissWindow
	for _, n := range g.byTrack[track] {
		if n.Hit || n.Type == DragNote {
			continue
		}
		d := abs(n.Offset(g.now))
		if d > MissWindow {
			if n.PerfectTime > g.now {
				// the cache is ordered, nothing later can be closer
				break
			}
			continue
		}
		if target == nil || d < closest {
			target, closest = n, d
		}
	}
	if target == nil {
		return Judgement{}, false
	}
	return g.judgeNote(target, target.Offset(g.now)), true
}

// breakHold turns a hold released before its end into a single Bad
func (g *GameState) breakHold(track int) (Judgement, bool) {
	for _, n := range g.notes {
		if n == nil || n.Type != HoldNote || n.Track != track || !n.Hit || n.IsComplete(g.now) {
			continue
		}
		prev, _ := n.Judgement()
		if prev == Bad || prev == Miss {
			continue
		}
		n.setJudgement(Bad)
		g.judge.Retally(prev, Bad)
		g.combo = 0
		g.last, g.hasLast = Bad, true
		j := Judgement{Note: n.ID, Track: n.Track, Type: n.Type, Result: Bad, Offset: n.Offset(g.now)}
		g.emit(Event{Kind: EventJudged, Note: n.ID, Type: n.Type, Track: n.Track, Result: Bad, Offset: j.Offset, Score: g.score, Combo: g.combo})
		return j, true
	}
	return Judgement{}, false
}

// judgeNote classifies offset and applies the result to the note, the score
// and the combo
func (g *GameState) judgeNote(n *Note, offset time.Duration) Judgement {
	r := g.judge.Classify(abs(offset))
	n.setJudgement(r)

	if r == Miss {
		g.combo = 0
	} else {
		g.score += g.judge.Score(r)
		if g.score > MaxScore {
			g.score = MaxScore
		}
		g.combo++
		if g.combo > g.maxCombo {
			g.maxCombo = g.combo
		}
	}
	g.record(n, r, offset)
	return Judgement{Note: n.ID, Track: n.Track, Type: n.Type, Result: r, Offset: offset}
}

func (g *GameState) judgeMiss(n *Note) {
	n.setJudgement(Miss)
	g.combo = 0
	g.record(n, Miss, n.Offset(g.now))
}

func (g *GameState) record(n *Note, r Result, offset time.Duration) {
	g.judge.Record(r)
	g.last, g.hasLast = r, true
	g.cacheStale = true
	g.emit(Event{Kind: EventJudged, Note: n.ID, Type: n.Type, Track: n.Track, Result: r, Offset: offset, Score: g.score, Combo: g.combo})
}
