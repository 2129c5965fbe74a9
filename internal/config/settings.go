package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the persistent preferences of a player, read from the
// environment. Command line flags override them.
type Settings struct {
	MusicVolume float64       `env:"TRG_MUSIC_VOLUME" envDefault:"0.7"`
	SfxVolume   float64       `env:"TRG_SFX_VOLUME"   envDefault:"0.8"`
	MusicDelay  time.Duration `env:"TRG_MUSIC_DELAY"  envDefault:"150ms"`
	FPS         int           `env:"TRG_FPS"          envDefault:"60"`
	Keys        string        `env:"TRG_KEYS"         envDefault:"dfjk"`
	Difficulty  string        `env:"TRG_DIFFICULTY"   envDefault:"normal"`
	Autoplay    bool          `env:"TRG_AUTOPLAY"     envDefault:"false"`
	Database    string        `env:"TRG_DB"           envDefault:"./scores.db"`
	Sounds      string        `env:"TRG_SOUNDS"       envDefault:"./audio/notes"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	if s.FPS <= 0 {
		return s, fmt.Errorf("parse env: fps must be positive, got %d", s.FPS)
	}
	s.MusicVolume = clampVolume(s.MusicVolume)
	s.SfxVolume = clampVolume(s.SfxVolume)
	return s, nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
