package score

import (
	"errors"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

var ErrClosed = errors.New("score store is not open")

type Store interface {
	Init() error
	Deinit()

	// Save keeps rec as the chart's best when it beats the stored score
	Save(rec Record) (bool, error)
	Best(chartID string) (Record, bool, error)
	All() ([]Record, error)
	Delete(chartID string) (bool, error)
	Clear() error

	// Save the inputs of this performance
	SaveInputs(sum string, d game.Difficulty, inputs []game.Input) error

	// Load up previous inputs for the chart
	Load(sum string) ([]History, error)
}

// Record is the result of one completed session
type Record struct {
	ChartID    string
	Sum        string
	Score      int
	Grade      string
	MaxCombo   int
	Perfect    int
	Good       int
	Miss       int // Bad and Miss together
	Difficulty string
	Accuracy   float64 // Percent
	PlayedAt   time.Time
}

func NewRecord(chartID, sum string, stats game.Stats, at time.Time) Record {
	return Record{
		ChartID:    chartID,
		Sum:        sum,
		Score:      stats.Score,
		Grade:      game.Grade(stats.Score),
		MaxCombo:   stats.MaxCombo,
		Perfect:    stats.Counts[game.Perfect],
		Good:       stats.Counts[game.Good],
		Miss:       stats.Misses(),
		Difficulty: stats.Difficulty.String(),
		Accuracy:   stats.Accuracy * 100,
		PlayedAt:   at,
	}
}

type History struct {
	Sum        string
	Difficulty game.Difficulty
	Inputs     []game.Input
	PlayedAt   time.Time
}
