package config

import (
	"fmt"
	"strconv"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
	"git.lost.host/meutraa/trg/internal/input"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

const (
	CommandPlay         = "play"
	CommandReplay       = "replay"
	CommandScoresList   = "scores list"
	CommandScoresDelete = "scores delete"
	CommandScoresClear  = "scores clear"
)

type Config struct {
	Command   string
	Directory string
	ChartID   string

	Difficulty     game.Difficulty
	Autoplay       bool
	Offset         time.Duration
	Delay          time.Duration
	FramePeriod    time.Duration
	ScrollSpeed    float64
	ColumnSpacing  uint
	BarRow         uint
	Keys           input.Keymap
	Device         string
	ReleaseTimeout time.Duration
	Database       string
	Log            string
	Sounds         string
	MusicVolume    float64
	SfxVolume      float64
}

func difficultyNames() []string {
	names := []string{}
	for _, d := range game.Difficulties() {
		names = append(names, d.String())
	}
	return names
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse reads the command line, falling back to s for anything not given
func Parse(args []string, s Settings) (*Config, error) {
	c := &Config{}
	var difficulty, keys string

	app := kingpin.New("trg", "A four track rhythm game for the terminal")
	app.Version(Version)
	app.Flag("db", "Score database").Default(s.Database).StringVar(&c.Database)
	app.Flag("log", "Log file, the terminal is taken by the game").Default("trg.log").StringVar(&c.Log)

	play := app.Command(CommandPlay, "Play the chart of a song directory").Default()
	play.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)

	replay := app.Command(CommandReplay, "Replay the recorded inputs of a song directory")
	replay.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)

	for _, cmd := range []*kingpin.CmdClause{play, replay} {
		cmd.Flag("difficulty", "Judgement difficulty").Default(s.Difficulty).Short('D').EnumVar(&difficulty, difficultyNames()...)
		cmd.Flag("frame-period", "Render frame period").Default((time.Second / time.Duration(s.FPS)).String()).Short('p').DurationVar(&c.FramePeriod)
	}

	play.Flag("autoplay", "Let the game play itself").Default(strconv.FormatBool(s.Autoplay)).Short('a').BoolVar(&c.Autoplay)
	play.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	play.Flag("delay", "Music delay").Default(s.MusicDelay.String()).Short('d').DurationVar(&c.Delay)
	play.Flag("scroll-speed", "Rows per chart line, higher is faster").Default("4").Short('s').Float64Var(&c.ScrollSpeed)
	play.Flag("spacing", "Columns between keys").Default("6").Short('S').UintVar(&c.ColumnSpacing)
	play.Flag("bar-row", "Console row to render hit bar, from the bottom").Default("4").UintVar(&c.BarRow)
	play.Flag("keys", "Keys for the four tracks").Default(s.Keys).Short('k').StringVar(&keys)
	play.Flag("device", "Read keys from an evdev device instead of the terminal").StringVar(&c.Device)
	play.Flag("release-timeout", "Time without key repeat before a key counts as released").Default("550ms").DurationVar(&c.ReleaseTimeout)
	play.Flag("sounds", "Directory of note sound effects").Default(s.Sounds).StringVar(&c.Sounds)
	play.Flag("music-volume", "Music volume, 0 to 1").Default(formatFloat(s.MusicVolume)).Float64Var(&c.MusicVolume)
	play.Flag("sfx-volume", "Sound effect volume, 0 to 1").Default(formatFloat(s.SfxVolume)).Float64Var(&c.SfxVolume)

	scores := app.Command("scores", "Manage high scores")
	scores.Command("list", "List the best score of every chart").Default()
	del := scores.Command("delete", "Delete the best score of a chart")
	del.Arg("chart", "Chart id").Required().StringVar(&c.ChartID)
	scores.Command("clear", "Delete every high score")

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = cmd

	if cmd == CommandPlay || cmd == CommandReplay {
		if c.Difficulty, err = game.ParseDifficulty(difficulty); nil != err {
			return nil, err
		}
		if c.FramePeriod <= 0 {
			return nil, fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
		}
	}
	if cmd == CommandPlay {
		if c.Keys, err = input.ParseKeymap(keys); nil != err {
			return nil, fmt.Errorf("invalid keys: %w", err)
		}
		if c.ReleaseTimeout <= 0 {
			return nil, fmt.Errorf("release timeout must be positive, got %v", c.ReleaseTimeout)
		}
		if c.ScrollSpeed <= 0 {
			return nil, fmt.Errorf("scroll speed must be positive, got %v", c.ScrollSpeed)
		}
		c.MusicVolume = clampVolume(c.MusicVolume)
		c.SfxVolume = clampVolume(c.SfxVolume)
	}
	return c, nil
}
