package parser

import "git.lost.host/meutraa/trg/internal/game"

type Parser interface {
	Parse(file string) (*game.Chart, error)
}
