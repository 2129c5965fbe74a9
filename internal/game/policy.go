package game

// processAutoplay plays every note that comes within twice the perfect
// window. Judged notes record a zero offset.
func (g *GameState) processAutoplay() {
	window := 2 * g.judge.Window(Perfect)
	g.autoHeld = [NumTracks]bool{}

	g.eachNote("autoplaying", func(n *Note) error {
		if !n.Hit {
			if !n.InWindow(g.now, window) {
				return nil
			}
			if n.Type == DragNote {
				g.autoHeld[n.Track] = true
			}
			g.judgeNote(n, 0)
			if n.Type != HoldNote {
				return nil
			}
		}
		if n.Type == HoldNote && n.HeldTime < n.Duration && !n.broken() {
			g.autoHeld[n.Track] = true
		}
		return nil
	})
}

// processAutoMiss misses every unhit note that has passed the miss window
func (g *GameState) processAutoMiss() {
	g.eachNote("missing", func(n *Note) error {
		if !n.Hit && g.now > n.PerfectTime+MissWindow {
			g.judgeMiss(n)
		}
		return nil
	})
}

// processDrags judges drag notes by the state of their track as they reach
// the miss window, without waiting for a press
func (g *GameState) processDrags() {
	g.eachNote("dragging", func(n *Note) error {
		if n.Type != DragNote || n.Hit || !n.InWindow(g.now, MissWindow) {
			return nil
		}
		if g.activated(n.Track) {
			g.judgeNote(n, 0)
		} else {
			g.judgeMiss(n)
		}
		return nil
	})
}

func (g *GameState) checkGameOver() {
	if g.state != Playing {
		return
	}

	if g.endTime != nil && g.now >= *g.endTime {
		end := *g.endTime
		g.eachNote("ending", func(n *Note) error {
			if !n.Hit && n.PerfectTime <= end {
				g.judgeMiss(n)
			}
			return nil
		})
		g.gameOver()
		return
	}

	if len(g.notes) == 0 {
		g.gameOver()
	}
}

func (g *GameState) gameOver() {
	stats := g.Stats()
	g.emit(Event{Kind: EventGameOver, Score: stats.Score, Combo: stats.Combo, Stats: &stats})
	g.logger.Printf("game over: score %d, max combo %d, accuracy %.2f%%", stats.Score, stats.MaxCombo, stats.Accuracy*100)
	g.Stop()
}
