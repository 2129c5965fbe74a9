package theme

import (
	"fmt"

	"git.lost.host/meutraa/trg/internal/game"
)

type Color struct {
	R, G, B uint8
}

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(nt game.NoteType, judged bool) string {
	if judged {
		return colorize(dimColor, noteSyms[nt])
	}
	return colorize(NoteColor(nt), noteSyms[nt])
}

func (t *DefaultTheme) RenderHoldBody(held bool) string {
	if held {
		return colorize(JudgementColor(game.Perfect), holdSym)
	}
	return colorize(NoteColor(game.HoldNote), holdSym)
}

func (t *DefaultTheme) RenderHitField(track int, activated bool) string {
	if activated {
		return colorize(activeColor, barActiveSym)
	}
	return barSym
}

func (t *DefaultTheme) RenderJudgement(r game.Result) string {
	return fmt.Sprintf("\033[1m%s\033[0m", colorize(JudgementColor(r), fmt.Sprintf("%-7s", r)))
}

func colorize(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

const (
	holdSym      = "┃"
	barSym       = "─"
	barActiveSym = "━"
)

var (
	noteSyms = map[game.NoteType]string{
		game.NormalNote: "⬤",
		game.HoldNote:   "◆",
		game.DragNote:   "◇",
	}
	noteColors = map[game.NoteType]Color{
		game.NormalNote: {0, 118, 236}, // blue
		game.HoldNote:   {236, 195, 0}, // yellow
		game.DragNote:   {236, 0, 106}, // pink
	}
	judgementColors = [...]Color{
		game.Perfect: {173, 236, 236}, // light blue
		game.Good:    {0, 236, 128},   // green
		game.Bad:     {236, 128, 0},   // orange
		game.Miss:    {236, 30, 0},    // red
	}
	activeColor = Color{255, 255, 255}
	dimColor    = Color{106, 106, 106}
)

func NoteColor(t game.NoteType) Color {
	col, ok := noteColors[t]
	if !ok {
		return Color{255, 255, 255}
	}
	return col
}

func JudgementColor(r game.Result) Color {
	if int(r) < len(judgementColors) {
		return judgementColors[r]
	}
	return dimColor
}
