package game

import "time"

type Stats struct {
	Score       int
	Combo       int
	MaxCombo    int
	Counts      [4]int // Indexed by Result
	Accuracy    float64
	ClearTime   time.Duration
	Difficulty  Difficulty
	ActiveNotes int
}

func (s Stats) Judged() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// Misses merges Bad and Miss, the way results are stored
func (s Stats) Misses() int {
	return s.Counts[Bad] + s.Counts[Miss]
}

// Accuracy weighs each judged note by its result. A session with nothing
// judged yet is considered accurate.
func Accuracy(counts [4]int) float64 {
	total := 0
	weighted := 0.0
	for r, c := range counts {
		total += c
		weighted += float64(c) * Result(r).Weight()
	}
	if total == 0 {
		return 1.0
	}
	return weighted / float64(total)
}

var grades = []struct {
	min   int
	grade string
}{
	{MaxScore, "AP"},
	{950000, "V"},
	{920000, "S"},
	{880000, "A"},
	{820000, "B"},
	{720000, "C"},
}

func Grade(score int) string {
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return "F"
}

func (g *GameState) Stats() Stats {
	counts := g.judge.Counts()
	return Stats{
		Score:       g.score,
		Combo:       g.combo,
		MaxCombo:    g.maxCombo,
		Counts:      counts,
		Accuracy:    Accuracy(counts),
		ClearTime:   g.now,
		Difficulty:  g.judge.Difficulty(),
		ActiveNotes: len(g.notes),
	}
}
