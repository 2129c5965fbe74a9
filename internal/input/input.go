package input

import (
	"fmt"
	"strings"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

type Kind uint8

const (
	KeyTrack Kind = iota
	KeyPause
	KeyQuit
)

type Event struct {
	Kind   Kind
	Track  int
	Action game.Action
}

// Source delivers key events from a goroutine of its own
type Source interface {
	Events() <-chan Event
	Close() error
}

// Keymap binds one key to each track
type Keymap [game.NumTracks]rune

func ParseKeymap(keys string) (Keymap, error) {
	var km Keymap
	runes := []rune(strings.ToLower(keys))
	if len(runes) != game.NumTracks {
		return km, fmt.Errorf("expected %d keys, got %q", game.NumTracks, keys)
	}
	for i, r := range runes {
		if km.Track(r) != -1 {
			return km, fmt.Errorf("key %q bound twice", r)
		}
		km[i] = r
	}
	return km, nil
}

func (km Keymap) Track(r rune) int {
	if r == 0 {
		return -1
	}
	r = []rune(strings.ToLower(string(r)))[0]
	for i, k := range km {
		if k == r {
			return i
		}
	}
	return -1
}

// Repeater turns a stream of presses, as repeated by a terminal while a key is
// held, into presses and releases. A track is released once no press has been
// seen on it for Timeout.
type Repeater struct {
	Timeout time.Duration

	held     [game.NumTracks]bool
	lastSeen [game.NumTracks]time.Time
}

// Press reports whether a press at is the start of a new hold
func (r *Repeater) Press(track int, at time.Time) bool {
	if track < 0 || track >= game.NumTracks {
		return false
	}
	r.lastSeen[track] = at
	if r.held[track] {
		return false
	}
	r.held[track] = true
	return true
}

// Expire returns the tracks whose hold ended before now
func (r *Repeater) Expire(now time.Time) []int {
	released := []int{}
	for i := range r.held {
		if r.held[i] && now.Sub(r.lastSeen[i]) >= r.Timeout {
			r.held[i] = false
			released = append(released, i)
		}
	}
	return released
}

// ReleaseAll ends every hold, returning the released tracks
func (r *Repeater) ReleaseAll() []int {
	released := []int{}
	for i := range r.held {
		if r.held[i] {
			r.held[i] = false
			released = append(released, i)
		}
	}
	return released
}
