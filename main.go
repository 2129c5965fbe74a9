package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"git.lost.host/meutraa/trg/internal/config"
	"git.lost.host/meutraa/trg/internal/game"
	"git.lost.host/meutraa/trg/internal/input"
	"git.lost.host/meutraa/trg/internal/parser"
	"git.lost.host/meutraa/trg/internal/render"
	"git.lost.host/meutraa/trg/internal/score"
	"git.lost.host/meutraa/trg/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	settings, err := config.LoadSettings()
	if nil != err {
		return err
	}
	c, err := config.Parse(args, settings)
	if nil != err {
		return err
	}

	// Ensure our Default implementations are used as interfaces
	var store score.Store = &score.DefaultStore{Path: c.Database}
	var psr parser.Parser = &parser.DefaultParser{}

	if err := store.Init(); nil != err {
		return err
	}
	defer store.Deinit()

	switch c.Command {
	case config.CommandPlay:
		return play(c, store, psr)
	case config.CommandReplay:
		return replay(c, store, psr)
	case config.CommandScoresList:
		return listScores(store)
	case config.CommandScoresDelete:
		deleted, err := store.Delete(c.ChartID)
		if nil != err {
			return err
		}
		if !deleted {
			return fmt.Errorf("no score for %v", c.ChartID)
		}
		return nil
	case config.CommandScoresClear:
		return store.Clear()
	}
	return fmt.Errorf("unknown command %v", c.Command)
}

func play(c *config.Config, store score.Store, psr parser.Parser) error {
	// The terminal belongs to the game from here on
	if c.Log != "" {
		f, err := os.OpenFile(c.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var src input.Source
	var err error
	if c.Device != "" {
		src, err = input.OpenDevice(c.Device, c.Keys)
	} else {
		src, err = input.OpenKeyboard(c.Keys, c.ReleaseTimeout)
	}
	if nil != err {
		return err
	}
	defer func() {
		if err := src.Close(); nil != err {
			log.Println(err)
		}
	}()

	p := &Program{
		Config:   c,
		Parser:   psr,
		Store:    store,
		Theme:    &theme.DefaultTheme{},
		Renderer: &render.DefaultRenderer{},
		Input:    src,
	}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()

	// Clear the screen and hide the cursor
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := p.Renderer.Deinit(); nil != err {
			log.Println("unable to restore terminal", err)
		}
	}()

	return p.Run()
}

// replay plays the latest recorded inputs of a chart back at the chosen
// difficulty and prints the result
func replay(c *config.Config, store score.Store, psr parser.Parser) error {
	chartFile, _, err := findSong(c.Directory)
	if nil != err {
		return err
	}
	chart, err := psr.Parse(chartFile)
	if nil != err {
		return err
	}

	histories, err := store.Load(score.HashChart(chart))
	if nil != err {
		return err
	}
	var latest *score.History
	for i := range histories {
		if histories[i].Difficulty == c.Difficulty {
			latest = &histories[i]
		}
	}
	if nil == latest {
		return errors.New("no recorded inputs for this chart and difficulty")
	}

	stats, err := score.Replay(chart, latest.Difficulty, latest.Inputs, c.FramePeriod)
	if nil != err {
		return err
	}
	fmt.Printf("%v (%v), played %v\n", chart.Meta.ID, stats.Difficulty, latest.PlayedAt.Format("2006-01-02 15:04"))
	fmt.Printf("grade %v  score %07d  max combo %d  accuracy %.2f%%\n",
		game.Grade(stats.Score), stats.Score, stats.MaxCombo, stats.Accuracy*100)
	for _, r := range game.Results() {
		fmt.Printf("%8v %5d\n", r, stats.Counts[r])
	}
	return nil
}

func listScores(store score.Store) error {
	records, err := store.All()
	if nil != err {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHART\tSCORE\tGRADE\tACCURACY\tCOMBO\tDIFFICULTY\tPLAYED")
	for _, r := range records {
		fmt.Fprintf(w, "%v\t%07d\t%v\t%.2f%%\t%d\t%v\t%v\n",
			r.ChartID, r.Score, r.Grade, r.Accuracy, r.MaxCombo, r.Difficulty, r.PlayedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
