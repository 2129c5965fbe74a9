package audio

import "time"

// Clock is the time source of a session. Position is measured from the
// start of the chart and never goes below zero.
type Clock interface {
	Position() time.Duration
	Play()
	Pause()
	Resume()
	Stop()
}

// MaxDelay bounds the music delay in both directions
const MaxDelay = time.Second

func clampDelay(d time.Duration) time.Duration {
	if d > MaxDelay {
		return MaxDelay
	}
	if d < -MaxDelay {
		return -MaxDelay
	}
	return d
}

// FrameClock follows the wall clock. It is used for charts without audio.
type FrameClock struct {
	Delay time.Duration
	Now   func() time.Time

	start    time.Time
	pausedAt time.Time
	paused   time.Duration
	playing  bool
	isPaused bool
	last     time.Duration
}

func NewFrameClock(delay time.Duration) *FrameClock {
	return &FrameClock{Delay: clampDelay(delay), Now: time.Now}
}

func (c *FrameClock) Position() time.Duration {
	if !c.playing {
		return c.last
	}
	now := c.Now()
	if c.isPaused {
		now = c.pausedAt
	}
	pos := now.Sub(c.start) - c.paused - c.Delay
	if pos < 0 {
		pos = 0
	}
	c.last = pos
	return pos
}

func (c *FrameClock) Play() {
	c.start = c.Now()
	c.paused = 0
	c.playing = true
	c.isPaused = false
	c.last = 0
}

func (c *FrameClock) Pause() {
	if !c.playing || c.isPaused {
		return
	}
	c.pausedAt = c.Now()
	c.isPaused = true
}

func (c *FrameClock) Resume() {
	if !c.playing || !c.isPaused {
		return
	}
	c.paused += c.Now().Sub(c.pausedAt)
	c.isPaused = false
}

func (c *FrameClock) Stop() {
	if c.playing {
		c.Position()
	}
	c.playing = false
}
