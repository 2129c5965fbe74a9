package game

import (
	"math"
	"time"
)

// Result is the outcome of judging a single note
type Result uint8

const (
	Perfect Result = iota
	Good
	Bad
	Miss

	resultCount
)

const (
	// MaxScore is the score of a flawless run
	MaxScore = 1000000

	// MissWindow is the fixed distance after which an unhit note is missed.
	// It is not scaled by difficulty.
	MissWindow = 200 * time.Millisecond

	minWindow = 10 * time.Millisecond
)

var resultNames = [resultCount]string{
	Perfect: "PERFECT",
	Good:    "GOOD",
	Bad:     "BAD",
	Miss:    "MISS",
}

// Windows before difficulty scaling, Perfect < Good < Bad
var baseWindows = [Miss]time.Duration{
	Perfect: 80 * time.Millisecond,
	Good:    160 * time.Millisecond,
	Bad:     200 * time.Millisecond,
}

var weights = [resultCount]float64{
	Perfect: 1.0,
	Good:    0.65,
	Bad:     0,
	Miss:    0,
}

func (r Result) String() string {
	if r < resultCount {
		return resultNames[r]
	}
	return "UNKNOWN"
}

// Weight is the fraction of a note's base score awarded for this result
func (r Result) Weight() float64 {
	if r < resultCount {
		return weights[r]
	}
	return 0
}

// Results lists every result from the most to the least accurate
func Results() []Result {
	return []Result{Perfect, Good, Bad, Miss}
}

// JudgementSystem classifies timing offsets and converts results into score
type JudgementSystem struct {
	difficulty Difficulty
	windows    [Miss]time.Duration
	totalNotes int
	counts     [resultCount]int
}

func NewJudgementSystem(d Difficulty) *JudgementSystem {
	if !d.Valid() {
		d = Normal
	}
	j := &JudgementSystem{difficulty: d}
	for r, w := range baseWindows {
		scaled := time.Duration(int64(w/time.Millisecond)*difficultyScale[d]/100) * time.Millisecond
		if scaled < minWindow {
			scaled = minWindow
		}
		j.windows[r] = scaled
	}
	return j
}

func (j *JudgementSystem) Difficulty() Difficulty {
	return j.difficulty
}

// Window returns the maximum offset for r. Miss always reports MissWindow.
func (j *JudgementSystem) Window(r Result) time.Duration {
	if r >= Miss {
		return MissWindow
	}
	return j.windows[r]
}

// Classify maps an absolute offset to a result
func (j *JudgementSystem) Classify(d time.Duration) Result {
	if d < 0 {
		d = -d
	}
	for _, r := range [...]Result{Perfect, Good, Bad} {
		if d <= j.windows[r] {
			return r
		}
	}
	return Miss
}

// Score returns the points awarded for r, given the chart-wide note count.
// Each note is worth MaxScore/total, rounded up.
func (j *JudgementSystem) Score(r Result) int {
	if j.totalNotes <= 0 {
		return 0
	}
	base := float64(MaxScore) / float64(j.totalNotes)
	return int(math.Ceil(base * r.Weight()))
}

func (j *JudgementSystem) SetTotalNotes(n int) {
	j.totalNotes = n
}

func (j *JudgementSystem) TotalNotes() int {
	return j.totalNotes
}

func (j *JudgementSystem) Record(r Result) {
	if r < resultCount {
		j.counts[r]++
	}
}

// Retally moves one recorded result from one tier to another
func (j *JudgementSystem) Retally(from, to Result) {
	if from < resultCount && j.counts[from] > 0 {
		j.counts[from]--
	}
	j.Record(to)
}

func (j *JudgementSystem) Counts() [4]int {
	return j.counts
}

func (j *JudgementSystem) Count(r Result) int {
	if r < resultCount {
		return j.counts[r]
	}
	return 0
}

// Reset clears the counters and the note total
func (j *JudgementSystem) Reset() {
	j.counts = [resultCount]int{}
	j.totalNotes = 0
}
