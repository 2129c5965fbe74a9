package audio

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// counter counts the samples pulled through it by the speaker
type counter struct {
	s beep.Streamer
	n int
}

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.s.Stream(samples)
	c.n += n
	return n, ok
}

func (c *counter) Err() error {
	return c.s.Err()
}

// MusicClock plays a song and reports its position. Silence follows the end
// of the song so the clock keeps running for charts longer than their audio.
type MusicClock struct {
	Delay time.Duration

	out     *Output
	stream  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	count   *counter
	started bool
	stopped bool
	last    time.Duration
}

func decode(file string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s", file)
}

func OpenMusic(out *Output, file string, volume float64, delay time.Duration) (*MusicClock, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, fmt.Errorf("unable to open audio: %w", err)
	}
	stream, format, err := decode(file, f)
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode audio: %w", err)
	}
	log.Printf("opened %v (%v Hz, %v)", file, format.SampleRate, format.SampleRate.D(stream.Len()))

	count := &counter{s: beep.Seq(out.resample(format.SampleRate, stream), beep.Silence(-1))}
	return &MusicClock{
		Delay:  clampDelay(delay),
		out:    out,
		stream: stream,
		ctrl:   &beep.Ctrl{Streamer: withVolume(count, volume), Paused: true},
		count:  count,
	}, nil
}

func (c *MusicClock) Position() time.Duration {
	if c.stopped {
		return c.last
	}
	speaker.Lock()
	n := c.count.n
	speaker.Unlock()

	pos := c.out.Rate().D(n) - c.Delay
	if pos < 0 {
		pos = 0
	}
	c.last = pos
	return pos
}

func (c *MusicClock) Play() {
	if c.started {
		c.Resume()
		return
	}
	c.started = true
	c.ctrl.Paused = false
	c.out.Add(c.ctrl)
}

func (c *MusicClock) Pause() {
	speaker.Lock()
	c.ctrl.Paused = true
	speaker.Unlock()
}

func (c *MusicClock) Resume() {
	if c.stopped {
		return
	}
	speaker.Lock()
	c.ctrl.Paused = false
	speaker.Unlock()
}

func (c *MusicClock) Stop() {
	if c.stopped {
		return
	}
	c.Position()
	speaker.Lock()
	c.ctrl.Paused = true
	c.ctrl.Streamer = nil
	speaker.Unlock()
	c.stopped = true
	if err := c.stream.Close(); nil != err {
		log.Println("unable to close audio stream", err)
	}
}
