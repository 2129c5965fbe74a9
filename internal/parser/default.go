package parser

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

// Lines per second when a chart does not set one
const DefaultSpeed = 5.0

// Line format, one element per line
// m:s, m:s:ms             Set the current time
// name-, maker-, level-   Metadata
// audio-file              Audio file next to the chart
// speed-n, line-n         Lines per second, used to size holds
// tab-T                   Normal note on track T (1 based)
// hold-T-lines            Hold note, lines long
// drag-T                  Drag note
// write-text-seconds      Text shown from the current time
// &                       End of chart
var timeLine = regexp.MustCompile(`^(\d+):(\d+)(?::(\d+))?`)

var levelNames = map[string]bool{"EZ": true, "HD": true, "IN": true, "AT": true, "SP": true}

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, fmt.Errorf("unable to open chart: %w", err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return p.ParseReader(id, f)
}

// chartReader holds the state of one parse
type chartReader struct {
	chart *game.Chart
	now   time.Duration
}

func (p *DefaultParser) ParseReader(id string, r io.Reader) (*game.Chart, error) {
	cr := &chartReader{
		chart: &game.Chart{
			Meta: game.Metadata{ID: id, LevelName: "EZ", Speed: DefaultSpeed},
		},
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "&" {
			end := cr.now
			cr.chart.EndTime = &end
			break
		}
		if err := cr.parseLine(line); nil != err {
			log.Printf("chart %s line %d: %v", id, lineNumber, err)
		}
	}
	if err := scanner.Err(); nil != err {
		return nil, fmt.Errorf("unable to read chart: %w", err)
	}

	log.Printf("parsed chart %s: %d notes, %d text events, %d skipped", id, len(cr.chart.Notes), len(cr.chart.Texts), cr.chart.Skipped)
	return cr.chart, nil
}

func (cr *chartReader) parseLine(line string) error {
	if m := timeLine.FindStringSubmatch(line); m != nil {
		t, err := parseTime(m)
		if nil != err {
			return err
		}
		cr.now = t
		return nil
	}

	key, value, _ := strings.Cut(line, "-")
	switch key {
	case "name":
		cr.chart.Meta.Title = strings.TrimSpace(value)
	case "maker":
		maker, song, _ := strings.Cut(value, "-")
		cr.chart.Meta.Maker = strings.TrimSpace(maker)
		cr.chart.Meta.SongMaker = strings.TrimSpace(song)
	case "level":
		return cr.parseLevel(value)
	case "audio":
		cr.chart.Meta.AudioFile = strings.TrimSpace(strings.TrimPrefix(value, "audio-"))
	case "speed", "line":
		speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if nil != err || speed <= 0 {
			return fmt.Errorf("invalid speed %q", value)
		}
		cr.chart.Meta.Speed = speed
	case "tab":
		return cr.addNote(game.NormalNote, value)
	case "hold":
		return cr.addNote(game.HoldNote, value)
	case "drag":
		return cr.addNote(game.DragNote, value)
	case "write":
		return cr.addText(value)
	}
	return nil
}

func parseTime(m []string) (time.Duration, error) {
	minutes, err := strconv.Atoi(m[1])
	if nil != err {
		return 0, err
	}
	seconds, err := strconv.Atoi(m[2])
	if nil != err {
		return 0, err
	}
	millis := 0
	if m[3] != "" {
		if millis, err = strconv.Atoi(m[3]); nil != err {
			return 0, err
		}
	}
	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

func (cr *chartReader) parseLevel(value string) error {
	level, name, hasName := strings.Cut(value, "-")
	level = strings.TrimSpace(level)
	name = strings.ToUpper(strings.TrimSpace(name))

	if hasName && !levelNames[name] {
		cr.chart.Meta.Level, cr.chart.Meta.LevelName = "1", "EZ"
		return fmt.Errorf("invalid difficulty name %q", name)
	}
	if !hasName {
		name = "EZ"
	}
	// SP levels do not need to be numbers
	if _, err := strconv.Atoi(level); nil != err && name != "SP" {
		cr.chart.Meta.Level, cr.chart.Meta.LevelName = "1", "EZ"
		return fmt.Errorf("invalid level %q", level)
	}
	cr.chart.Meta.Level, cr.chart.Meta.LevelName = level, name
	return nil
}

func (cr *chartReader) addNote(t game.NoteType, value string) error {
	parts := strings.Split(value, "-")
	track, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if nil != err {
		cr.chart.Skipped++
		return fmt.Errorf("invalid %v note %q: %w", t, value, err)
	}
	track-- // 1 based in the file
	if track < 0 || track >= game.NumTracks {
		cr.chart.Skipped++
		return fmt.Errorf("invalid track %d in %v note", track+1, t)
	}

	note := game.NoteDescriptor{Type: t, Track: track, PerfectTime: cr.now}
	if t == game.HoldNote {
		lines := 1.0
		if len(parts) > 1 {
			if lines, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); nil != err {
				log.Printf("invalid hold length %q, using one line", parts[1])
				lines = 1.0
			}
		}
		note.Duration = time.Duration(int64(lines*1000/cr.chart.Meta.Speed)) * time.Millisecond
	}
	cr.chart.Notes = append(cr.chart.Notes, note)
	return nil
}

func (cr *chartReader) addText(value string) error {
	i := strings.LastIndex(value, "-")
	if i < 0 {
		return fmt.Errorf("invalid text event %q", value)
	}
	seconds, err := strconv.Atoi(value[i+1:])
	if nil != err {
		return fmt.Errorf("invalid text duration %q", value[i+1:])
	}
	cr.chart.Texts = append(cr.chart.Texts, game.TextEvent{
		Content:  value[:i],
		Start:    cr.now,
		Duration: time.Duration(seconds) * time.Second,
	})
	return nil
}
