package game

import "time"

type NoteView struct {
	ID          NoteID
	Track       int
	Type        NoteType
	PerfectTime time.Duration
	Duration    time.Duration
	Hit         bool
	HeldTime    time.Duration
	Result      Result
	Judged      bool
}

// Snapshot is a read-only copy of what a renderer needs for one frame
type Snapshot struct {
	Now        time.Duration
	State      State
	Autoplay   bool
	Tracks     [NumTracks]bool
	Notes      []NoteView
	Score      int
	Combo      int
	MaxCombo   int
	Last       Result
	HasLast    bool
	Counts     [4]int
	Texts      []TextEvent
	Difficulty Difficulty
}

func (g *GameState) Snapshot() Snapshot {
	s := Snapshot{
		Now:        g.now,
		State:      g.state,
		Autoplay:   g.autoplay,
		Score:      g.score,
		Combo:      g.combo,
		MaxCombo:   g.maxCombo,
		Last:       g.last,
		HasLast:    g.hasLast,
		Counts:     g.judge.Counts(),
		Difficulty: g.judge.Difficulty(),
		Notes:      make([]NoteView, 0, len(g.notes)),
	}
	for i := range s.Tracks {
		s.Tracks[i] = g.activated(i)
	}
	for _, n := range g.notes {
		if n == nil {
			continue
		}
		r, judged := n.Judgement()
		s.Notes = append(s.Notes, NoteView{
			ID:          n.ID,
			Track:       n.Track,
			Type:        n.Type,
			PerfectTime: n.PerfectTime,
			Duration:    n.Duration,
			Hit:         n.Hit,
			HeldTime:    n.HeldTime,
			Result:      r,
			Judged:      judged,
		})
	}
	for _, t := range g.texts {
		if t.Active(g.now) {
			s.Texts = append(s.Texts, t)
		}
	}
	return s
}
