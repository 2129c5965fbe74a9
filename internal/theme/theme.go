package theme

import "git.lost.host/meutraa/trg/internal/game"

type Theme interface {
	RenderNote(t game.NoteType, judged bool) string
	RenderHoldBody(held bool) string
	RenderHitField(track int, activated bool) string
	RenderJudgement(r game.Result) string
}
