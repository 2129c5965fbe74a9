package game

import "time"

// TrackObserver receives the effects of a track changing state
type TrackObserver interface {
	TrackPressed(index int, at time.Duration)
	TrackReleased(index int)
}

type Track struct {
	Index         int
	Activated     bool
	LastPressTime time.Duration
	PressCount    int

	observer TrackObserver
}

func NewTrack(index int, observer TrackObserver) *Track {
	return &Track{Index: index, observer: observer}
}

// Press activates the track. Pressing an active track does nothing.
func (t *Track) Press(now time.Duration) {
	if t.Activated {
		return
	}
	t.Activated = true
	t.LastPressTime = now
	t.PressCount++
	if t.observer != nil {
		t.observer.TrackPressed(t.Index, now)
	}
}

// Release deactivates the track. Releasing an inactive track does nothing.
func (t *Track) Release() {
	if !t.Activated {
		return
	}
	t.Activated = false
	if t.observer != nil {
		t.observer.TrackReleased(t.Index)
	}
}

// Reset clears the activation state, the press count is a statistic and is kept
func (t *Track) Reset() {
	t.Activated = false
	t.LastPressTime = 0
}
