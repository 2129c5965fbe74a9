package audio

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Effects beyond this delay would play audibly off the music
const maxEffectDelay = 200 * time.Millisecond

// Effects plays a short sound for every note that is hit. Sounds are loaded
// from .wav files named after the note type, tones are used for the rest.
type Effects struct {
	Volume float64
	Delay  time.Duration

	out     *Output
	buffers map[string]*beep.Buffer
}

var toneFrequencies = map[string]float64{
	"tab":  880,
	"hold": 660,
	"drag": 1320,
}

func NewEffects(out *Output, volume float64, delay time.Duration) *Effects {
	return &Effects{
		Volume:  volume,
		Delay:   delay,
		out:     out,
		buffers: map[string]*beep.Buffer{},
	}
}

// Load reads every .wav file of dir into memory
func (e *Effects) Load(dir string) {
	entries, err := os.ReadDir(dir)
	if nil != err {
		log.Println("no sound effects loaded:", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".wav" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := e.loadFile(name, filepath.Join(dir, entry.Name())); nil != err {
			log.Println("unable to load sound effect", entry.Name(), err)
			continue
		}
		log.Println("loaded sound effect", name)
	}
}

func (e *Effects) loadFile(name, file string) error {
	f, err := os.Open(file)
	if nil != err {
		return err
	}
	stream, format, err := wav.Decode(f)
	if nil != err {
		f.Close()
		return err
	}
	defer stream.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: e.out.Rate(), NumChannels: 2, Precision: 2})
	buf.Append(e.out.resample(format.SampleRate, stream))
	e.buffers[name] = buf
	return nil
}

func (e *Effects) Enabled() bool {
	return e.Volume > 0 && e.Delay <= maxEffectDelay && e.Delay >= -maxEffectDelay
}

func EffectName(t game.NoteType) string {
	switch t {
	case game.HoldNote:
		return "hold"
	case game.DragNote:
		return "drag"
	}
	return "tab"
}

func (e *Effects) streamer(name string) beep.Streamer {
	if buf, ok := e.buffers[name]; ok {
		return buf.Streamer(0, buf.Len())
	}
	freq, ok := toneFrequencies[name]
	if !ok {
		return nil
	}
	return Tone(e.out.Rate(), freq, 60*time.Millisecond)
}

// PlayNote plays the sound of a note type, reporting whether anything played
func (e *Effects) PlayNote(t game.NoteType) bool {
	return e.Play(EffectName(t))
}

func (e *Effects) Play(name string) bool {
	if !e.Enabled() {
		return false
	}
	s := e.streamer(name)
	if nil == s {
		return false
	}
	e.out.Add(withVolume(s, e.Volume))
	return true
}

// Tone is a sine wave of freq that fades out over d
func Tone(rate beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := rate.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			t := float64(pos) / float64(rate)
			envelope := 1 - float64(pos)/float64(total)
			v := 0.3 * envelope * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}
