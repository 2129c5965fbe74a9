package game

import (
	"fmt"
	"time"
)

// NumTracks is the fixed number of input lanes
const NumTracks = 4

type NoteType uint8

const (
	NormalNote NoteType = iota
	HoldNote
	DragNote
)

var noteTypeNames = [...]string{
	NormalNote: "normal",
	HoldNote:   "hold",
	DragNote:   "drag",
}

func (t NoteType) String() string {
	if int(t) < len(noteTypeNames) {
		return noteTypeNames[t]
	}
	return fmt.Sprintf("note(%d)", uint8(t))
}

func (t NoteType) Valid() bool {
	return int(t) < len(noteTypeNames)
}

func ParseNoteType(s string) (NoteType, error) {
	for i, name := range noteTypeNames {
		if name == s {
			return NoteType(i), nil
		}
	}
	return NormalNote, fmt.Errorf("unknown note type %q", s)
}

type NoteID uint64

type Note struct {
	ID          NoteID
	Track       int // The chart column
	Type        NoteType
	PerfectTime time.Duration // The time the note should be hit
	Duration    time.Duration // How long a hold must be held, zero otherwise

	// This is state
	Hit           bool
	HeldTime      time.Duration
	StartHoldTime *time.Duration // When the hold first started accruing
	CurrentTrack  int

	judgement Result
	judged    bool
}

func newNote(id NoteID, d NoteDescriptor) *Note {
	n := &Note{
		ID:           id,
		Track:        d.Track,
		Type:         d.Type,
		PerfectTime:  d.PerfectTime,
		CurrentTrack: d.Track,
	}
	if d.Type == HoldNote && d.Duration > 0 {
		n.Duration = d.Duration
	}
	return n
}

// Judgement returns the result the note was judged with, if any
func (n *Note) Judgement() (Result, bool) {
	return n.judgement, n.judged
}

func (n *Note) setJudgement(r Result) {
	n.Hit = true
	n.judgement = r
	n.judged = true
}

// Offset is the signed distance from the perfect time, negative when early
func (n *Note) Offset(now time.Duration) time.Duration {
	return now - n.PerfectTime
}

func (n *Note) InWindow(now, window time.Duration) bool {
	return abs(n.Offset(now)) <= window
}

// broken reports a hold that was released early
func (n *Note) broken() bool {
	return n.judged && (n.judgement == Bad || n.judgement == Miss)
}

// Update advances the note to now. currentTrack of -1 leaves the current
// track unchanged.
func (n *Note) Update(now time.Duration, activated bool, currentTrack int) error {
	if currentTrack != -1 {
		if currentTrack < 0 || currentTrack >= NumTracks {
			return fmt.Errorf("note %d: %w: %d", n.ID, ErrInvalidTrack, currentTrack)
		}
		n.CurrentTrack = currentTrack
	}

	if n.Type != HoldNote || !n.Hit || !activated || n.broken() {
		return nil
	}
	if n.StartHoldTime == nil {
		start := now
		n.StartHoldTime = &start
	}
	held := now - n.PerfectTime
	if held < 0 {
		held = 0
	}
	if held > n.Duration {
		held = n.Duration
	}
	n.HeldTime = held
	return nil
}

// IsComplete reports whether the note has finished its lifecycle and can be
// evicted. A hold that was hit keeps going until its tail passes.
func (n *Note) IsComplete(now time.Duration) bool {
	if n.Type != HoldNote {
		return n.Hit || now > n.PerfectTime+MissWindow
	}
	if n.Hit && n.HeldTime >= n.Duration {
		return true
	}
	if n.Hit && n.judgement != Miss {
		return now > n.PerfectTime+n.Duration+MissWindow
	}
	return now > n.PerfectTime+MissWindow
}

// HoldProgress is the held fraction of a hold note, 0 for other notes
func (n *Note) HoldProgress() float64 {
	if n.Duration <= 0 {
		return 0
	}
	p := float64(n.HeldTime) / float64(n.Duration)
	if p > 1 {
		return 1
	}
	return p
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}
