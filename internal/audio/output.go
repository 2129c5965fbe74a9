package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const DefaultSampleRate = beep.SampleRate(44100)

// Output is the speaker and the mixer every sound is played through
type Output struct {
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

func NewOutput(rate beep.SampleRate) *Output {
	return &Output{rate: rate, mixer: &beep.Mixer{}}
}

func (o *Output) Init() error {
	if o.initialized {
		return nil
	}
	if err := speaker.Init(o.rate, o.rate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to initialize speaker: %w", err)
	}
	speaker.Play(o.mixer)
	o.initialized = true
	return nil
}

func (o *Output) Deinit() {
	if !o.initialized {
		return
	}
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	o.initialized = false
}

func (o *Output) Rate() beep.SampleRate {
	return o.rate
}

func (o *Output) Add(s ...beep.Streamer) {
	speaker.Lock()
	o.mixer.Add(s...)
	speaker.Unlock()
}

// resample converts s from rate to the output rate
func (o *Output) resample(rate beep.SampleRate, s beep.Streamer) beep.Streamer {
	if rate == o.rate {
		return s
	}
	return beep.Resample(4, rate, o.rate, s)
}

// withVolume scales s by v, where 0 is silent and 1 is unchanged
func withVolume(s beep.Streamer, v float64) beep.Streamer {
	if v > 1 {
		v = 1
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(v, 1e-6)),
		Silent:   v <= 0,
	}
}
