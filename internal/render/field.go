package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
	"git.lost.host/meutraa/trg/internal/theme"
)

// Frames a judgement stays on screen
const judgementFrames = 30

// Layout places the four tracks in the middle of the terminal, notes fall
// from the top towards the hit bar
type Layout struct {
	Columns [game.NumTracks]int
	HitRow  int
	SideCol int
	Rows    int
}

func NewLayout(columns, rows int, spacing, barRow uint) Layout {
	mc := columns >> 1
	s := int(spacing)
	l := Layout{
		Columns: [game.NumTracks]int{mc - s*3/2, mc - s/2, mc + s/2, mc + s*3/2},
		HitRow:  rows - int(barRow),
		Rows:    rows,
	}
	if l.HitRow < 2 {
		l.HitRow = rows
	}
	l.SideCol = l.Columns[0] - 36
	if l.SideCol < 2 {
		l.SideCol = 2
	}
	return l
}

// Field draws snapshots of a session
type Field struct {
	Renderer Renderer
	Theme    theme.Theme
	Layout   Layout
	// Rows a note travels per second
	RowsPerSecond float64
	Title         string
}

// Row returns the screen row of something happening at t
func (f *Field) Row(now, t time.Duration) int {
	return f.Layout.HitRow - int(math.Round((t-now).Seconds()*f.RowsPerSecond))
}

func (f *Field) inField(row int) bool {
	return row > 0 && row < f.Layout.HitRow
}

func (f *Field) clear() {
	blank := " "
	for row := 1; row < f.Layout.HitRow; row++ {
		for _, col := range f.Layout.Columns {
			f.Renderer.Fill(row, col, blank)
		}
	}
}

func (f *Field) Draw(s game.Snapshot) {
	f.clear()

	for i, col := range f.Layout.Columns {
		f.Renderer.Fill(f.Layout.HitRow, col, f.Theme.RenderHitField(i, s.Tracks[i]))
	}

	for _, n := range s.Notes {
		f.drawNote(s.Now, n)
	}

	f.drawTexts(s)
	f.drawStats(s)
}

func (f *Field) drawNote(now time.Duration, n game.NoteView) {
	if n.Track < 0 || n.Track >= game.NumTracks {
		return
	}
	col := f.Layout.Columns[n.Track]
	head := f.Row(now, n.PerfectTime)
	if n.Type == game.HoldNote {
		tail := f.Row(now, n.PerfectTime+n.Duration)
		bottom := head - 1
		if n.Hit {
			bottom = f.Layout.HitRow - 1
		}
		held := n.Hit && n.Result != game.Bad && n.Result != game.Miss
		for row := tail; row <= bottom; row++ {
			if f.inField(row) {
				f.Renderer.Fill(row, col, f.Theme.RenderHoldBody(held))
			}
		}
		if n.Hit {
			return
		}
	} else if n.Hit {
		return
	}
	if f.inField(head) {
		f.Renderer.Fill(head, col, f.Theme.RenderNote(n.Type, n.Judged))
	}
}

func (f *Field) drawTexts(s game.Snapshot) {
	row := 2
	mid := (f.Layout.Columns[1] + f.Layout.Columns[2]) / 2
	width := f.Layout.Columns[3] - f.Layout.Columns[0] + 1
	for _, t := range s.Texts {
		col := mid - len([]rune(t.Content))/2
		if col < 1 {
			col = 1
		}
		f.Renderer.Fill(row, f.Layout.Columns[0], strings.Repeat(" ", width))
		f.Renderer.Fill(row, col, t.Content)
		row++
	}
}

func (f *Field) drawStats(s game.Snapshot) {
	col := f.Layout.SideCol
	f.Renderer.Fill(2, col, f.Title)
	f.Renderer.Fill(4, col, fmt.Sprintf("      Score:  %07d", s.Score))
	f.Renderer.Fill(5, col, fmt.Sprintf("      Combo:  %7d", s.Combo))
	f.Renderer.Fill(6, col, fmt.Sprintf("  Max Combo:  %7d", s.MaxCombo))
	f.Renderer.Fill(7, col, fmt.Sprintf("   Accuracy:  %6.2f%%", game.Accuracy(s.Counts)*100))
	f.Renderer.Fill(8, col, fmt.Sprintf(" Difficulty:  %7s", s.Difficulty))
	for i, r := range game.Results() {
		f.Renderer.Fill(10+i, col, fmt.Sprintf("%s  %7d", f.Theme.RenderJudgement(r), s.Counts[r]))
	}

	status := ""
	switch {
	case s.State == game.Paused:
		status = "PAUSED"
	case s.Autoplay:
		status = "AUTOPLAY"
	}
	f.Renderer.Fill(15, col, fmt.Sprintf("%-10s", status))
}

// Judged shows the latest judgement below the hit bar for a while, and marks
// the hit field of a track that missed
func (f *Field) Judged(track int, r game.Result) {
	mid := (f.Layout.Columns[1] + f.Layout.Columns[2]) / 2
	f.Renderer.AddDecoration(mid-3, f.Layout.HitRow+2, f.Theme.RenderJudgement(r), judgementFrames)

	if r != game.Miss || track < 0 || track >= game.NumTracks {
		return
	}
	col, row := f.Layout.Columns[track], f.Layout.HitRow
	red := "\033[1;31m"
	f.Renderer.AddDecoration(col-1, row-1, red+"╭\033[0m", judgementFrames)
	f.Renderer.AddDecoration(col+1, row-1, red+"╮\033[0m", judgementFrames)
	f.Renderer.AddDecoration(col-1, row+1, red+"╰\033[0m", judgementFrames)
	f.Renderer.AddDecoration(col+1, row+1, red+"╯\033[0m", judgementFrames)
}

// Results draws the end of session screen
func (f *Field) Results(stats game.Stats, best int, newBest bool) {
	f.Renderer.Clear()
	col := f.Layout.SideCol
	row := f.Layout.Rows/2 - 6
	if row < 1 {
		row = 1
	}
	lines := []string{
		f.Title,
		"",
		fmt.Sprintf("      Grade:  %7s", game.Grade(stats.Score)),
		fmt.Sprintf("      Score:  %07d", stats.Score),
		fmt.Sprintf("  Max Combo:  %7d", stats.MaxCombo),
		fmt.Sprintf("   Accuracy:  %6.2f%%", stats.Accuracy*100),
	}
	for _, r := range game.Results() {
		lines = append(lines, fmt.Sprintf("%s  %7d", f.Theme.RenderJudgement(r), stats.Counts[r]))
	}
	if newBest {
		lines = append(lines, "", "   New best!")
	} else if best > 0 {
		lines = append(lines, "", fmt.Sprintf("       Best:  %07d", best))
	}
	lines = append(lines, "", "Press any key to exit")
	for i, line := range lines {
		f.Renderer.Fill(row+i, col, line)
	}
	f.Renderer.Flush()
}
