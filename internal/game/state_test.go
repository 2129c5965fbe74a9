package game

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

func TestScenarioPerfectPress(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms}))
	advance(g, 1005*ms, 16*ms)

	j, ok := g.Judge(0, Press)
	if !ok {
		t.Fatal("press did not judge a note")
	}
	if j.Result != Perfect || j.Offset != 5*ms {
		t.Fatalf("unexpected judgement %+v", j)
	}
	if g.Score() != MaxScore || g.Combo() != 1 || g.MaxCombo() != 1 {
		t.Fatalf("score %d combo %d max %d", g.Score(), g.Combo(), g.MaxCombo())
	}

	g.Tick(16 * ms)
	if len(g.ActiveNotes()) != 0 {
		t.Fatal("hit note not evicted")
	}
	if g.State() != Stopped {
		t.Fatalf("session did not end, state %v", g.State())
	}
}

func TestScenarioAutoMiss(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms}))
	advance(g, 1250*ms, 10*ms)

	if g.Score() != 0 || g.Combo() != 0 {
		t.Fatalf("score %d combo %d", g.Score(), g.Combo())
	}
	if c := g.Judgements().Counts(); c[Miss] != 1 {
		t.Fatalf("expected one miss, counts %v", c)
	}
	if g.State() != Stopped {
		t.Fatalf("session did not end, state %v", g.State())
	}
}

func TestScenarioHold(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: HoldNote, Track: 1, PerfectTime: 2000 * ms, Duration: 1000 * ms}))
	note := g.ActiveNotes()[0]

	advance(g, 2010*ms, 10*ms)
	j, ok := g.Press(1)
	if !ok || j.Result != Perfect || !note.Hit {
		t.Fatalf("hold head not judged perfect: %+v %v", j, ok)
	}

	advance(g, 3015*ms, 5*ms)
	if note.HeldTime != 1000*ms {
		t.Fatalf("held time %v", note.HeldTime)
	}
	if r, _ := note.Judgement(); r != Perfect {
		t.Fatalf("judgement changed to %v", r)
	}
	if len(g.ActiveNotes()) != 0 {
		t.Fatal("completed hold not evicted")
	}
	if g.Score() != MaxScore {
		t.Fatalf("score %d", g.Score())
	}
}

func TestScenarioDrag(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: DragNote, Track: 2, PerfectTime: 5000 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 9000 * ms},
	))
	advance(g, 4750*ms, 50*ms)

	// The jump skips the window edge at 4800ms, where an idle lane misses the
	// drag (see TestDragMissedOnWindowEdge). The lane is held when it is judged.
	g.SetTime(4900 * ms)
	g.Press(2)
	g.Events()
	g.Tick(0)

	events := g.Events()
	if len(events) != 1 || events[0].Kind != EventJudged || events[0].Result != Perfect || events[0].Offset != 0 {
		t.Fatalf("drag not judged perfect on entering the window: %+v", events)
	}

	advance(g, 5100*ms, 10*ms)
	if c := g.Judgements().Counts(); c != [4]int{1, 0, 0, 0} {
		t.Fatalf("unexpected counts %v", c)
	}
}

func TestDragWithoutActivationMisses(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: DragNote, Track: 3, PerfectTime: 500 * ms}))
	advance(g, 300*ms, 10*ms)
	if r, ok := g.LastJudgement(); !ok || r != Miss {
		t.Fatalf("expected a miss, got %v %v", r, ok)
	}
}

func TestPressIgnoresDrag(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: DragNote, Track: 0, PerfectTime: 1000 * ms}))
	g.SetTime(1000 * ms)
	if _, ok := g.Press(0); ok {
		t.Fatal("a press judged a drag note")
	}
}

func TestPerfectWindowAlwaysPerfect(t *testing.T) {
	for _, d := range Difficulties() {
		window := NewJudgementSystem(d).Window(Perfect)
		for offset := -window; offset <= window; offset += 7 * ms {
			g := newTestState(t, d, chartOf(NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: time.Second}))
			g.Start()
			g.SetTime(time.Second + offset)
			j, ok := g.Press(1)
			if !ok || j.Result != Perfect {
				t.Fatalf("%v offset %v: %+v %v", d, offset, j, ok)
			}
		}
	}
}

func TestPressPicksClosestNote(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1150 * ms},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 1100 * ms},
	))
	g.SetTime(1100 * ms)
	j, ok := g.Press(0)
	if !ok || j.Note != 1 || j.Result != Perfect {
		t.Fatalf("expected the note at 1150ms, got %+v", j)
	}
	g.Release(0)

	j, ok = g.Press(0)
	if !ok || j.Note != 0 || j.Result != Good {
		t.Fatalf("expected the note at 1000ms, got %+v", j)
	}
}

func TestPressTieTakesEarliest(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1100 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 900 * ms},
	))
	g.SetTime(1000 * ms)
	j, ok := g.Press(0)
	if !ok || j.Offset != 100*ms {
		t.Fatalf("expected the earlier note, got %+v", j)
	}
}

func TestPressOutsideWindow(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms}))
	g.SetTime(750 * ms)
	if _, ok := g.Press(0); ok {
		t.Fatal("judged a note 250ms away")
	}
	if !g.Track(0).Activated {
		t.Fatal("press did not activate the track")
	}
}

func TestEarlyReleaseSingleBad(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: HoldNote, Track: 1, PerfectTime: 1000 * ms, Duration: 1000 * ms},
		NoteDescriptor{Type: NormalNote, Track: 2, PerfectTime: 5000 * ms},
	))
	advance(g, 1000*ms, 10*ms)
	g.Press(1)
	advance(g, 1300*ms, 10*ms)

	j, ok := g.Release(1)
	if !ok || j.Result != Bad {
		t.Fatalf("early release: %+v %v", j, ok)
	}
	if g.Combo() != 0 {
		t.Fatalf("combo %d after a forced bad", g.Combo())
	}

	for i := 0; i < 3; i++ {
		advance(g, g.Now()+50*ms, 10*ms)
		if _, ok := g.Press(1); ok {
			t.Fatal("a re-press judged the broken hold")
		}
		advance(g, g.Now()+50*ms, 10*ms)
		if _, ok := g.Release(1); ok {
			t.Fatal("a second release judged the broken hold")
		}
	}

	if c := g.Judgements().Counts(); c != [4]int{0, 0, 1, 0} {
		t.Fatalf("unexpected counts %v", c)
	}

	advance(g, 2300*ms, 10*ms)
	for _, n := range g.ActiveNotes() {
		if n.Track == 1 {
			t.Fatal("broken hold never evicted")
		}
	}
}

func TestReleaseAfterHoldComplete(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: HoldNote, Track: 0, PerfectTime: 100 * ms, Duration: 200 * ms},
		NoteDescriptor{Type: NormalNote, Track: 3, PerfectTime: 5000 * ms},
	))
	advance(g, 100*ms, 10*ms)
	g.Press(0)
	advance(g, 400*ms, 10*ms)
	if _, ok := g.Release(0); ok {
		t.Fatal("release after a completed hold was judged")
	}
	if r, _ := g.LastJudgement(); r != Perfect {
		t.Fatalf("last judgement %v", r)
	}
}

func TestEndMarker(t *testing.T) {
	end := 3000 * ms
	chart := chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 2950 * ms},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 8000 * ms},
	)
	chart.EndTime = &end
	g := startedState(t, chart)
	g.Events()

	advance(g, 4000*ms, 10*ms)
	if g.State() != Stopped || g.Now() != end {
		t.Fatalf("state %v at %v", g.State(), g.Now())
	}

	var over *Stats
	for _, e := range g.Events() {
		if e.Kind == EventGameOver {
			over = e.Stats
		}
	}
	if over == nil {
		t.Fatal("no game over event")
	}
	if over.Counts[Miss] != 1 || over.ClearTime != end {
		t.Fatalf("unexpected final stats %+v", over)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms}))
	g.Tick(100 * ms)
	g.Pause()
	g.Tick(500 * ms)
	if g.Now() != 100*ms {
		t.Fatalf("paused tick advanced to %v", g.Now())
	}
	if _, ok := g.Press(0); ok {
		t.Fatal("judged while paused")
	}
	g.Resume()
	g.Tick(100 * ms)
	if g.Now() != 200*ms {
		t.Fatalf("resumed at %v", g.Now())
	}
	g.Tick(-50 * ms)
	if g.Now() != 200*ms {
		t.Fatalf("negative delta moved time to %v", g.Now())
	}
}

func TestInvalidCalls(t *testing.T) {
	g := newTestState(t, Normal, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 0}))
	if _, ok := g.Press(0); ok {
		t.Fatal("judged while stopped")
	}
	g.Start()
	for _, track := range []int{-1, NumTracks, 99} {
		if _, ok := g.Press(track); ok {
			t.Fatalf("judged track %d", track)
		}
	}
	if err := g.SetDifficulty(Master); !errors.Is(err, ErrNotStopped) {
		t.Fatalf("difficulty changed while playing: %v", err)
	}
}

func TestStartWithoutNotes(t *testing.T) {
	g := newTestState(t, Normal, chartOf())
	if err := g.Start(); !errors.Is(err, ErrNoNotes) {
		t.Fatalf("expected ErrNoNotes, got %v", err)
	}
	if g.State() != Stopped {
		t.Fatalf("state %v", g.State())
	}
}

func TestLoadSkipsInvalidNotes(t *testing.T) {
	g := newTestState(t, Normal, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 4, PerfectTime: 100 * ms},
		NoteDescriptor{Type: NoteType(9), Track: 0, PerfectTime: 100 * ms},
		NoteDescriptor{Type: HoldNote, Track: 3, PerfectTime: 300 * ms, Duration: 100 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 200 * ms},
	))
	notes := g.ActiveNotes()
	if len(notes) != 2 || g.Judgements().TotalNotes() != 2 {
		t.Fatalf("loaded %d notes, total %d", len(notes), g.Judgements().TotalNotes())
	}
	if notes[0].PerfectTime != 200*ms || notes[1].PerfectTime != 300*ms {
		t.Fatal("notes not ordered by time")
	}
	if notes[0].ID == notes[1].ID {
		t.Fatal("duplicate note ids")
	}
}

func TestReloadRestartsIDs(t *testing.T) {
	chart := chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 0})
	g := newTestState(t, Normal, chart)
	g.Load(chart)
	if id := g.ActiveNotes()[0].ID; id != 0 {
		t.Fatalf("ids leak across loads, got %d", id)
	}
}

func TestSetDifficultyKeepsTotal(t *testing.T) {
	g := newTestState(t, Normal, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 0},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 0},
	))
	if err := g.SetDifficulty(Master); nil != err {
		t.Fatal(err)
	}
	j := g.Judgements()
	if j.TotalNotes() != 2 || j.Difficulty() != Master || j.Window(Perfect) != 40*ms {
		t.Fatalf("unexpected judgement system %+v", j)
	}
}

func TestComboResetsOnMiss(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 1000 * ms},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 1200 * ms},
		NoteDescriptor{Type: NormalNote, Track: 2, PerfectTime: 1400 * ms},
		NoteDescriptor{Type: NormalNote, Track: 3, PerfectTime: 3000 * ms},
	))
	advance(g, 1000*ms, 10*ms)
	g.Press(0)
	advance(g, 1200*ms, 10*ms)
	g.Press(1)
	advance(g, 1700*ms, 10*ms)
	if g.Combo() != 0 || g.MaxCombo() != 2 {
		t.Fatalf("combo %d max %d", g.Combo(), g.MaxCombo())
	}
	s := g.Stats()
	if s.Counts != [4]int{2, 0, 0, 1} || s.ActiveNotes != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestEventOrder(t *testing.T) {
	g := startedState(t, chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 0}))
	events := g.Events()
	if len(events) != 1 || events[0].Kind != EventStateChanged || events[0].State != Playing {
		t.Fatalf("unexpected start events %+v", events)
	}
	g.Press(0)
	events = g.Events()
	if len(events) != 2 || events[0].Kind != EventTrackPressed || events[1].Kind != EventJudged {
		t.Fatalf("unexpected press events %+v", events)
	}
	if events[1].Score != MaxScore || events[1].Combo != 1 {
		t.Fatalf("judged event carries %d/%d", events[1].Score, events[1].Combo)
	}
	if len(g.Events()) != 0 {
		t.Fatal("events not drained")
	}
}

func TestSnapshot(t *testing.T) {
	chart := chartOf(
		NoteDescriptor{Type: HoldNote, Track: 2, PerfectTime: 100 * ms, Duration: 300 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 900 * ms},
	)
	chart.Texts = []TextEvent{{Content: "ready", Start: 0, Duration: time.Second}}
	g := startedState(t, chart)
	advance(g, 100*ms, 10*ms)
	g.Press(2)
	advance(g, 200*ms, 10*ms)

	s := g.Snapshot()
	if !s.Tracks[2] || s.Tracks[0] {
		t.Fatalf("tracks %v", s.Tracks)
	}
	if len(s.Notes) != 2 || s.Notes[0].HeldTime != 100*ms || !s.Notes[0].Judged {
		t.Fatalf("notes %+v", s.Notes)
	}
	if !s.HasLast || s.Last != Perfect || len(s.Texts) != 1 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestDragMissedOnWindowEdge(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: DragNote, Track: 2, PerfectTime: 5000 * ms},
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 9000 * ms},
	))
	// continuous ticks reach 4800ms with the lane still up
	advance(g, 4900*ms, 16*ms)
	g.Press(2)
	advance(g, 5100*ms, 16*ms)

	if c := g.Judgements().Counts(); c != [4]int{0, 0, 0, 1} {
		t.Fatalf("expected the drag to be missed, got %v", c)
	}
}

func TestNilNoteDoesNotStopTick(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 100 * ms},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 200 * ms},
	))
	g.notes = append([]*Note{nil}, g.notes...)
	g.cacheStale = true

	if s := g.Snapshot(); len(s.Notes) != 2 {
		t.Fatalf("expected 2 notes in the snapshot, got %d", len(s.Notes))
	}

	advance(g, 100*ms, 10*ms)
	if j, ok := g.Press(0); !ok || j.Result != Perfect {
		t.Fatalf("expected a perfect, got %+v %v", j, ok)
	}
	advance(g, 600*ms, 10*ms)

	if c := g.Judgements().Counts(); c != [4]int{1, 0, 0, 1} {
		t.Fatalf("unexpected counts %v", c)
	}
	if len(g.ActiveNotes()) != 0 {
		t.Fatalf("expected every note evicted, got %d", len(g.ActiveNotes()))
	}
	if g.State() != Stopped {
		t.Fatalf("expected the session to end, got %v", g.State())
	}
}

func TestFaultingNoteIsIsolated(t *testing.T) {
	g := startedState(t, chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 100 * ms},
		NoteDescriptor{Type: DragNote, Track: 2, PerfectTime: 300 * ms},
		NoteDescriptor{Type: NormalNote, Track: 3, PerfectTime: 400 * ms},
	))
	logs := &bytes.Buffer{}
	g.SetLogger(log.New(logs, "", 0))
	g.SetAutoplay(true)
	// corrupt the drag, autoplay indexes its lane
	g.notes[1].Track = 7

	advance(g, time.Second, 10*ms)

	if c := g.Judgements().Counts(); c != [4]int{2, 0, 0, 0} {
		t.Fatalf("expected the other notes judged, got %v", c)
	}
	if len(g.ActiveNotes()) != 0 || g.State() != Stopped {
		t.Fatalf("expected every note evicted and the session ended, %d left, %v", len(g.ActiveNotes()), g.State())
	}
	if !strings.Contains(logs.String(), "autoplaying note 1") {
		t.Fatalf("expected the fault to be logged, got %q", logs.String())
	}
}

func TestStartRequiresFreshLoad(t *testing.T) {
	chart := chartOf(NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 100 * ms})
	g := startedState(t, chart)

	if err := g.Start(); !errors.Is(err, ErrNotStopped) {
		t.Fatalf("started while playing: %v", err)
	}
	g.Pause()
	if err := g.Start(); !errors.Is(err, ErrNotStopped) {
		t.Fatalf("started while paused: %v", err)
	}
	g.Stop()
	if err := g.Start(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("restarted a played session: %v", err)
	}

	if err := g.Load(chart); nil != err {
		t.Fatal(err)
	}
	if err := g.Start(); nil != err {
		t.Fatalf("start after load: %v", err)
	}
}

func TestStartAfterEndMarker(t *testing.T) {
	end := 50 * ms
	chart := chartOf(
		NoteDescriptor{Type: NormalNote, Track: 0, PerfectTime: 100 * ms},
		NoteDescriptor{Type: NormalNote, Track: 1, PerfectTime: 200 * ms},
	)
	chart.EndTime = &end
	g := startedState(t, chart)
	advance(g, 100*ms, 10*ms)

	if g.State() != Stopped || len(g.ActiveNotes()) == 0 {
		t.Fatalf("expected a stop with notes left, %v %d", g.State(), len(g.ActiveNotes()))
	}
	if err := g.Start(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("restarted after the end marker: %v", err)
	}
}
