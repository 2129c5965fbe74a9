package game

import (
	"fmt"
	"time"
)

// NoteDescriptor is a note as described by a chart, before it is loaded
type NoteDescriptor struct {
	Type        NoteType
	Track       int
	PerfectTime time.Duration
	Duration    time.Duration // Only meaningful for holds
}

func (d NoteDescriptor) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("unknown note type %d", d.Type)
	}
	if d.Track < 0 || d.Track >= NumTracks {
		return fmt.Errorf("%w: %d", ErrInvalidTrack, d.Track)
	}
	if d.PerfectTime < 0 {
		return fmt.Errorf("negative perfect time %v", d.PerfectTime)
	}
	if d.Duration < 0 {
		return fmt.Errorf("negative duration %v", d.Duration)
	}
	return nil
}

type Metadata struct {
	ID        string // The chart file name without extension
	Title     string
	Maker     string
	SongMaker string
	Level     string
	LevelName string
	AudioFile string
	Speed     float64 // Lines per second
}

// TextEvent is a line of text shown during play
type TextEvent struct {
	Content  string
	Start    time.Duration
	Duration time.Duration
}

func (e TextEvent) Active(now time.Duration) bool {
	return now >= e.Start && now < e.Start+e.Duration
}

type Chart struct {
	Meta    Metadata
	Notes   []NoteDescriptor
	Texts   []TextEvent
	EndTime *time.Duration // Optional end marker
	Skipped int            // Lines the parser could not turn into notes
}

func (c *Chart) NoteCount(t NoteType) int {
	count := 0
	for _, n := range c.Notes {
		if n.Type == t {
			count++
		}
	}
	return count
}

// Length is the time of the end marker, or of the last note tail
func (c *Chart) Length() time.Duration {
	if c.EndTime != nil {
		return *c.EndTime
	}
	var end time.Duration
	for _, n := range c.Notes {
		if t := n.PerfectTime + n.Duration; t > end {
			end = t
		}
	}
	return end
}
