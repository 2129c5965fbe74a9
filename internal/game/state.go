package game

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"
)

type State uint8

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// GameState owns every note and track of a session and applies the effects
// of judging them. It is not safe for concurrent use; callers serialize ticks
// and input on one goroutine.
type GameState struct {
	judge  *JudgementSystem
	tracks [NumTracks]*Track
	logger *log.Logger

	notes      []*Note // Active notes, ordered by perfect time
	byTrack    [NumTracks][]*Note
	cacheStale bool
	nextID     NoteID

	now      time.Duration
	state    State
	autoplay bool
	autoHeld [NumTracks]bool // Activation synthesized by autoplay

	score, combo, maxCombo int
	last                   Result
	hasLast                bool

	endTime *time.Duration
	texts   []TextEvent
	events  []Event
	fresh   bool // Loaded and not started yet
}

func New(d Difficulty) *GameState {
	g := &GameState{
		judge:  NewJudgementSystem(d),
		logger: log.New(os.Stderr, "game: ", log.LstdFlags),
	}
	for i := range g.tracks {
		g.tracks[i] = NewTrack(i, g)
	}
	return g
}

func (g *GameState) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// Load replaces the session with the notes of c. Descriptors that fail
// validation are skipped with a warning and do not count toward the total.
func (g *GameState) Load(c *Chart) error {
	if c == nil {
		return fmt.Errorf("load chart: %w", ErrNoNotes)
	}
	g.reset()

	for i, d := range c.Notes {
		if err := d.Validate(); nil != err {
			g.logger.Printf("skipping note %d: %v", i, err)
			continue
		}
		g.notes = append(g.notes, newNote(g.nextID, d))
		g.nextID++
	}
	sort.SliceStable(g.notes, func(i, j int) bool {
		return g.notes[i].PerfectTime < g.notes[j].PerfectTime
	})

	if skipped := len(c.Notes) - len(g.notes); skipped > 0 {
		g.logger.Printf("skipped %d invalid notes of %d", skipped, len(c.Notes))
	}

	g.judge.SetTotalNotes(len(g.notes))
	if c.EndTime != nil {
		end := *c.EndTime
		g.endTime = &end
		g.logger.Printf("chart has end marker at %v", end)
	}
	g.texts = append(g.texts, c.Texts...)
	g.cacheStale = true
	g.fresh = true

	g.logger.Printf("loaded chart %q with %d notes and %d text events", c.Meta.ID, len(g.notes), len(g.texts))
	return nil
}

func (g *GameState) reset() {
	g.score, g.combo, g.maxCombo = 0, 0, 0
	g.last, g.hasLast = Perfect, false
	g.now = 0
	g.state = Stopped
	g.notes = nil
	g.texts = nil
	g.endTime = nil
	g.events = nil
	g.nextID = 0
	g.autoHeld = [NumTracks]bool{}
	for _, t := range g.tracks {
		t.Reset()
	}
	g.judge.Reset()
	g.byTrack = [NumTracks][]*Note{}
	g.cacheStale = true
}

// Start begins a freshly loaded session. A session that already ran needs
// another Load first.
func (g *GameState) Start() error {
	if g.state != Stopped {
		return ErrNotStopped
	}
	if len(g.notes) == 0 {
		g.logger.Println("cannot start: no notes loaded")
		return ErrNoNotes
	}
	if !g.fresh {
		g.logger.Println("cannot start: session already played")
		return ErrNotLoaded
	}
	g.fresh = false
	g.now = 0
	g.setState(Playing)
	g.logger.Println("game started")
	return nil
}

func (g *GameState) Pause() {
	if g.state == Playing {
		g.setState(Paused)
		g.logger.Println("game paused")
	}
}

func (g *GameState) Resume() {
	if g.state == Paused {
		g.setState(Playing)
		g.logger.Println("game resumed")
	}
}

// Stop ends the session, score and statistics are kept
func (g *GameState) Stop() {
	if g.state == Stopped {
		return
	}
	g.setState(Stopped)
	g.logger.Println("game stopped")
}

func (g *GameState) setState(s State) {
	g.state = s
	g.emit(Event{Kind: EventStateChanged, State: s})
}

func (g *GameState) SetAutoplay(enable bool) {
	g.autoplay = enable
	if !enable {
		g.autoHeld = [NumTracks]bool{}
	}
	g.logger.Printf("autoplay enabled: %v", enable)
}

func (g *GameState) Autoplay() bool {
	return g.autoplay
}

// SetDifficulty rebuilds the judgement system, it keeps the loaded note total
func (g *GameState) SetDifficulty(d Difficulty) error {
	if g.state != Stopped {
		return ErrNotStopped
	}
	total := g.judge.TotalNotes()
	g.judge = NewJudgementSystem(d)
	g.judge.SetTotalNotes(total)
	g.logger.Printf("difficulty set to %v", g.judge.Difficulty())
	return nil
}

// SetTime overwrites the current time, e.g. to follow the audio position.
// Keeping it monotonic while playing is up to the caller.
func (g *GameState) SetTime(t time.Duration) {
	g.now = t
}

// Tick advances the session by dt and runs one frame of note processing
func (g *GameState) Tick(dt time.Duration) {
	if g.state != Playing {
		return
	}
	if dt > 0 {
		g.now += dt
	}

	g.rebuildCache()
	if g.autoplay {
		g.processAutoplay()
	} else {
		g.processAutoMiss()
		g.processDrags()
	}
	g.updateNotes()
	g.checkGameOver()
}

func (g *GameState) updateNotes() {
	g.eachNote("updating", func(n *Note) error {
		return n.Update(g.now, g.activated(n.Track), -1)
	})

	kept := g.notes[:0]
	for _, n := range g.notes {
		if n == nil {
			continue
		}
		complete := true
		err := g.guard("evicting", n, func(n *Note) error {
			complete = n.IsComplete(g.now)
			return nil
		})
		// a note that cannot report its state is dropped, it would never complete
		if nil == err && !complete {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(g.notes); i++ {
		g.notes[i] = nil
	}
	if len(kept) != len(g.notes) {
		g.cacheStale = true
	}
	g.notes = kept
}

// eachNote runs fn on every active note. A note that faults is logged and
// skipped, the rest of the pass goes on.
func (g *GameState) eachNote(phase string, fn func(n *Note) error) {
	for _, n := range g.notes {
		if n == nil {
			continue
		}
		g.guard(phase, n, fn)
	}
}

// guard runs fn on n, turning a panic into an error. Failures are logged
// with the id read before fn ran.
func (g *GameState) guard(phase string, n *Note, fn func(n *Note) error) (err error) {
	id := n.ID
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if nil != err {
			g.logger.Printf("error %s note %d: %v", phase, id, err)
		}
	}()
	return fn(n)
}

// rebuildCache collects the unhit notes of each track, ordered by perfect time
func (g *GameState) rebuildCache() {
	if !g.cacheStale {
		return
	}
	for i := range g.byTrack {
		g.byTrack[i] = g.byTrack[i][:0]
	}
	for _, n := range g.notes {
		if n == nil || n.Hit || n.Track < 0 || n.Track >= NumTracks {
			continue
		}
		g.byTrack[n.Track] = append(g.byTrack[n.Track], n)
	}
	g.cacheStale = false
}

// activated reports a track as held, either by the player or by autoplay
func (g *GameState) activated(track int) bool {
	if track < 0 || track >= NumTracks {
		return false
	}
	return g.tracks[track].Activated || g.autoHeld[track]
}

func (g *GameState) Now() time.Duration {
	return g.now
}

func (g *GameState) State() State {
	return g.state
}

func (g *GameState) Score() int {
	return g.score
}

func (g *GameState) Combo() int {
	return g.combo
}

func (g *GameState) MaxCombo() int {
	return g.maxCombo
}

func (g *GameState) LastJudgement() (Result, bool) {
	return g.last, g.hasLast
}

func (g *GameState) Judgements() *JudgementSystem {
	return g.judge
}

// Track returns the track at index, or nil when out of range
func (g *GameState) Track(index int) *Track {
	if index < 0 || index >= NumTracks {
		return nil
	}
	return g.tracks[index]
}

func (g *GameState) Tracks() [NumTracks]*Track {
	return g.tracks
}

// ActiveNotes returns the notes that have not completed yet
func (g *GameState) ActiveNotes() []*Note {
	return g.notes
}

func (g *GameState) EndTime() (time.Duration, bool) {
	if g.endTime == nil {
		return 0, false
	}
	return *g.endTime, true
}
