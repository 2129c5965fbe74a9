package render

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	Out io.Writer

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

func (r *DefaultRenderer) out() io.Writer {
	if nil == r.Out {
		return os.Stdout
	}
	return r.Out
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return fmt.Errorf("unable to make terminal raw: %w", err)
	}
	r.restoreState = state

	fmt.Fprintf(r.out(), "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out(), "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int) {
	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		log.Println("unable to get terminal size", err)
		return 80, 24
	}
	return columns, rows
}

func (r *DefaultRenderer) AddDecoration(col, row int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
}

// tickDecorations erases the expired decorations, then draws the live ones
func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", visibleWidth(d.Content)))
			continue
		}
		nd = append(nd, d)
	}
	for _, d := range nd {
		r.Fill(d.Y, d.X, d.Content)
		d.Frames--
	}
	r.decorations = nd
}

func (r *DefaultRenderer) RenderLoop(framePeriod time.Duration, render func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(framePeriod)

		cont = render(now)

		r.tickDecorations()
		r.Flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) Flush() {
	if _, err := io.WriteString(r.out(), r.buffer.String()); nil != err {
		log.Println("unable to write frame", err)
	}
	r.buffer.Reset()
}

// visibleWidth counts the runes of s that are not part of an escape sequence
func visibleWidth(s string) int {
	width := 0
	escape := false
	for _, c := range s {
		switch {
		case c == '\033':
			escape = true
		case escape:
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				escape = false
			}
		default:
			width++
		}
	}
	return width
}
