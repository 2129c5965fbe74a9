package game

import "errors"

var (
	ErrNoNotes      = errors.New("no notes loaded")
	ErrNotStopped   = errors.New("game is not stopped")
	ErrNotLoaded    = errors.New("session already played, load the chart again")
	ErrInvalidTrack = errors.New("invalid track index")
)
