package testdata

import (
	"time"

	"git.lost.host/meutraa/trg/internal/game"
)

// Chart is a small chart using every element of the chart format
const Chart = `# sample chart
name-Sample Song
maker-meutraa-Someone
level-7-HD
audio-song.ogg
speed-5

0:01
tab-1
0:01:500
hold-2-2.5
0:02
drag-3-1
tab-4
0:02:250
write-Go!-2
tab-5
hold-x
0:03
tab-1
&
tab-2
`

// GetChart returns Chart as the parser is expected to produce it
func GetChart() *game.Chart {
	end := 3000 * time.Millisecond
	return &game.Chart{
		Meta: game.Metadata{
			ID:        "sample",
			Title:     "Sample Song",
			Maker:     "meutraa",
			SongMaker: "Someone",
			Level:     "7",
			LevelName: "HD",
			AudioFile: "song.ogg",
			Speed:     5,
		},
		Notes: []game.NoteDescriptor{
			{Type: game.NormalNote, Track: 0, PerfectTime: 1000 * time.Millisecond},
			{Type: game.HoldNote, Track: 1, PerfectTime: 1500 * time.Millisecond, Duration: 500 * time.Millisecond},
			{Type: game.DragNote, Track: 2, PerfectTime: 2000 * time.Millisecond},
			{Type: game.NormalNote, Track: 3, PerfectTime: 2000 * time.Millisecond},
			{Type: game.NormalNote, Track: 0, PerfectTime: 3000 * time.Millisecond},
		},
		Texts: []game.TextEvent{
			{Content: "Go!", Start: 2250 * time.Millisecond, Duration: 2 * time.Second},
		},
		EndTime: &end,
		Skipped: 2,
	}
}
