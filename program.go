package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/trg/internal/audio"
	"git.lost.host/meutraa/trg/internal/config"
	"git.lost.host/meutraa/trg/internal/game"
	"git.lost.host/meutraa/trg/internal/input"
	"git.lost.host/meutraa/trg/internal/parser"
	"git.lost.host/meutraa/trg/internal/render"
	"git.lost.host/meutraa/trg/internal/score"
	"git.lost.host/meutraa/trg/internal/theme"
)

// Time to wait on the results screen for a key before exiting
const resultsTimeout = time.Minute

type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Store    score.Store
	Theme    theme.Theme
	Renderer render.Renderer
	Clock    audio.Clock
	Effects  *audio.Effects
	Input    input.Source

	audioFile, chartFile string

	chart  *game.Chart
	sum    string
	state  *game.GameState
	field  *render.Field
	output *audio.Output

	inputs []game.Input
	quit   bool
}

// findSong returns the chart of a song directory and the audio next to it
func findSong(dir string) (chartFile, audioFile string, err error) {
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".ogg", ".mp3", ".wav":
			audioFile = p
		case ".chart":
			chartFile = p
		}
		return nil
	}); nil != err {
		return "", "", fmt.Errorf("unable to walk song directory: %w", err)
	}

	if chartFile == "" {
		return "", "", errors.New("unable to find a .chart file in given directory")
	}
	return chartFile, audioFile, nil
}

func (p *Program) Init() error {
	var err error
	p.chartFile, p.audioFile, err = findSong(p.Config.Directory)
	if nil != err {
		return err
	}

	p.chart, err = p.Parser.Parse(p.chartFile)
	if nil != err {
		return err
	}
	if p.chart.Skipped > 0 {
		log.Printf("%d lines of %v could not be read", p.chart.Skipped, p.chartFile)
	}
	if p.chart.Meta.AudioFile != "" {
		p.audioFile = filepath.Join(filepath.Dir(p.chartFile), p.chart.Meta.AudioFile)
	}
	p.sum = score.HashChart(p.chart)

	p.state = game.New(p.Config.Difficulty)
	p.state.SetLogger(log.New(log.Writer(), "game: ", log.LstdFlags))
	if err := p.state.Load(p.chart); nil != err {
		return err
	}
	p.state.SetAutoplay(p.Config.Autoplay)

	p.output = audio.NewOutput(audio.DefaultSampleRate)
	if err := p.output.Init(); nil != err {
		log.Println("playing without sound:", err)
	}
	p.Effects = audio.NewEffects(p.output, p.Config.SfxVolume, p.Config.Delay)
	p.Effects.Load(p.Config.Sounds)

	p.Clock = nil
	if p.audioFile != "" {
		music, err := audio.OpenMusic(p.output, p.audioFile, p.Config.MusicVolume, p.Config.Delay)
		if nil != err {
			log.Println("falling back to a silent clock:", err)
		} else {
			p.Clock = music
		}
	}
	if nil == p.Clock {
		p.Clock = audio.NewFrameClock(p.Config.Delay)
	}

	columns, rows := p.Renderer.Size()
	p.field = &render.Field{
		Renderer:      p.Renderer,
		Theme:         p.Theme,
		Layout:        render.NewLayout(columns, rows, p.Config.ColumnSpacing, p.Config.BarRow),
		RowsPerSecond: p.chart.Meta.Speed * p.Config.ScrollSpeed,
		Title:         p.title(),
	}
	p.inputs = []game.Input{}
	return nil
}

func (p *Program) title() string {
	m := p.chart.Meta
	title := m.Title
	if title == "" {
		title = m.ID
	}
	if m.Level != "" {
		title = fmt.Sprintf("%s  %s %s", title, m.LevelName, m.Level)
	}
	return title
}

func (p *Program) Deinit() {
	if nil != p.Clock {
		p.Clock.Stop()
	}
	if nil != p.output {
		p.output.Deinit()
	}
}

// Run plays the chart until it ends or the player quits
func (p *Program) Run() error {
	if err := p.state.Start(); nil != err {
		return err
	}
	p.Clock.Play()

	p.Renderer.Clear()
	p.Renderer.RenderLoop(p.Config.FramePeriod, func(now time.Time) bool {
		cont := p.Update()
		p.field.Draw(p.state.Snapshot())
		return cont
	})

	p.Clock.Stop()
	if p.quit {
		log.Println("quit before the end of the chart")
		return nil
	}
	p.Finish(p.state.Stats())
	return nil
}

// sync advances the session to the position of the clock
func (p *Program) sync() {
	pos := p.Clock.Position() + p.Config.Offset
	if dt := pos - p.state.Now(); dt > 0 {
		p.state.Tick(dt)
	}
}

// Update runs one frame, reporting whether the session goes on
func (p *Program) Update() bool {
	if p.state.State() == game.Playing {
		p.sync()
	}

	for i := len(p.Input.Events()); i > 0; i-- {
		p.handleKey(<-p.Input.Events())
		if p.quit {
			p.state.Stop()
			return false
		}
	}

	over := false
	for _, e := range p.state.Events() {
		switch e.Kind {
		case game.EventJudged:
			if e.Result != game.Miss {
				p.Effects.PlayNote(e.Type)
			}
			p.field.Judged(e.Track, e.Result)
		case game.EventStateChanged:
			log.Println("state changed to", e.State)
		case game.EventGameOver:
			over = true
		}
	}
	return !over
}

func (p *Program) handleKey(e input.Event) {
	switch e.Kind {
	case input.KeyQuit:
		p.quit = true
	case input.KeyPause:
		switch p.state.State() {
		case game.Playing:
			p.state.Pause()
			p.Clock.Pause()
		case game.Paused:
			p.Clock.Resume()
			p.state.Resume()
		}
	case input.KeyTrack:
		if p.state.Autoplay() || p.state.State() != game.Playing {
			return
		}
		p.state.Judge(e.Track, e.Action)
		p.inputs = append(p.inputs, game.Input{Track: e.Track, Action: e.Action, At: p.state.Now()})
	}
}

// Finish stores the result of a session and shows it
func (p *Program) Finish(stats game.Stats) {
	best, newBest := 0, false
	if p.state.Autoplay() {
		log.Println("autoplay session, not saving")
	} else {
		rec := score.NewRecord(p.chart.Meta.ID, p.sum, stats, time.Now())
		var err error
		if newBest, err = p.Store.Save(rec); nil != err {
			log.Println("unable to save score:", err)
		}
		if err := p.Store.SaveInputs(p.sum, p.Config.Difficulty, p.inputs); nil != err {
			log.Println("unable to save inputs:", err)
		}
		if prev, ok, err := p.Store.Best(p.chart.Meta.ID); nil != err {
			log.Println("unable to load best score:", err)
		} else if ok {
			best = prev.Score
		}
	}

	p.field.Results(stats, best, newBest)
	p.waitForKey()
}

func (p *Program) waitForKey() {
	timeout := time.After(resultsTimeout)
	for {
		select {
		case e := <-p.Input.Events():
			if e.Kind != input.KeyTrack || e.Action == game.Press {
				return
			}
		case <-timeout:
			return
		}
	}
}
