package memory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/themes"
)

// Options are the display-affecting settings a game is created with.
type Options struct {
	Theme        themes.Theme
	TimerEnabled bool
	WordColor    core.Color
}

// Game is the platform-facing wrapper around a Session: it owns the
// keyboard cursor, translates actions and clicks into session calls, and
// renders the virtual pixel space onto a terminal screen.
type Game struct {
	cfg   config.GameConfig
	opts  Options
	store ProgressBridge

	session *Session
	rng     *rand.Rand
	tick    uint64

	cursorRow, cursorCol int
	cursorOn             bool // cursor is drawn once the keyboard is used

	now     func() time.Time
	lastErr error // latest persistence error, held for the host to log
}

// Package-level start level, consumed by the next Reset (like the menu
// handing a selection to the game).
var selectedStartLevel int

// SetStartLevel sets the level the next Reset starts at.
// 0 means the player's current level.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	return selectedStartLevel
}

// New creates a game bound to a progression store. Reset starts play.
func New(cfg config.GameConfig, store ProgressBridge, opts Options) *Game {
	return &Game{
		cfg:   cfg,
		store: store,
		opts:  opts,
		now:   time.Now,
	}
}

// Reset initializes/restarts the game and begins the selected level.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(rt.Seed))
	g.tick = 0
	g.lastErr = nil
	g.session = NewSession(g.cfg, g.store, g.rng)

	level := selectedStartLevel
	selectedStartLevel = 0 // Reset after use
	if level == 0 {
		level = g.store.Current()
	}
	g.startLevel(level)
}

// startLevel starts the given level, falling back to the player's current
// level and then to level 1 if the requested one is unavailable. The level
// that actually starts becomes the saved current level.
func (g *Game) startLevel(level int) {
	now := g.now()
	alphabet := g.opts.Theme.Alphabet
	err := g.session.StartLevel(level, alphabet, now)
	if err != nil && level != g.store.Current() {
		err = g.session.StartLevel(g.store.Current(), alphabet, now)
	}
	if err != nil {
		err = g.session.StartLevel(1, alphabet, now)
	}
	if err != nil {
		g.lastErr = err
	} else if saveErr := g.store.SetCurrent(g.session.Level()); saveErr != nil {
		g.lastErr = saveErr
	}
	g.cursorRow, g.cursorCol = 0, 0
	g.cursorOn = false
}

// TakeErr returns and clears the latest deferred error (persistence
// failures, lock fallbacks). Gameplay always continues past these; the host
// loop is expected to log them.
func (g *Game) TakeErr() error {
	err := g.lastErr
	g.lastErr = nil
	return err
}

// SubmitName forwards a finished name entry to the session.
func (g *Game) SubmitName(name string) error {
	if g.session == nil {
		return fmt.Errorf("memory: game not started")
	}
	return g.session.SubmitName(name)
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{}
	}
	g.tick++
	now := g.now()
	phase := g.session.Phase()

	if input.Has(core.ActionBack) {
		g.session.Abandon()
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) {
		if g.session.Paused() {
			g.session.Resume(now)
		} else {
			g.session.Pause(now)
		}
	}

	switch phase {
	case PhasePlaying:
		if !g.session.Paused() {
			g.moveCursor(input)
			if g.flipPressed(input) && g.cursorOn {
				idx := g.session.board.Index(g.cursorRow, g.cursorCol)
				if idx >= 0 && idx < len(g.session.board.Cards) {
					g.session.Click(g.session.board.Cards[idx].Rect.Center(), now)
				}
			}
			for _, p := range input.Clicks {
				g.session.Click(p, now)
			}
		}
	case PhaseFailed:
		if input.Has(core.ActionRestart) || input.Has(core.ActionConfirm) || input.Has(core.ActionFlip) {
			g.startLevel(g.session.Level())
		}
	case PhaseLevelComplete:
		if input.Has(core.ActionRestart) {
			g.startLevel(g.session.Level())
		} else if input.Has(core.ActionConfirm) || input.Has(core.ActionFlip) {
			g.startLevel(g.session.Level() + 1)
		}
	case PhaseRunComplete:
		if input.Has(core.ActionConfirm) || input.Has(core.ActionFlip) {
			g.session.Abandon() // back to the menu
		}
	}

	if err := g.session.Advance(now); err != nil {
		g.lastErr = err
	}
	return core.StepResult{State: g.State()}
}

// flipPressed reports a flip request. Enter doubles as flip during play.
func (g *Game) flipPressed(input core.InputFrame) bool {
	return input.Has(core.ActionFlip) || input.Has(core.ActionConfirm)
}

// moveCursor moves the keyboard cursor across the grid, wrapping at edges.
func (g *Game) moveCursor(input core.InputFrame) {
	rows, cols := g.session.board.Rows, g.session.board.Cols
	if rows == 0 || cols == 0 {
		return
	}
	moved := false
	switch {
	case input.Has(core.ActionUp):
		g.cursorRow = (g.cursorRow + rows - 1) % rows
		moved = true
	case input.Has(core.ActionDown):
		g.cursorRow = (g.cursorRow + 1) % rows
		moved = true
	case input.Has(core.ActionLeft):
		g.cursorCol = (g.cursorCol + cols - 1) % cols
		moved = true
	case input.Has(core.ActionRight):
		g.cursorCol = (g.cursorCol + 1) % cols
		moved = true
	}
	if moved || g.flipPressed(input) {
		g.cursorOn = true
	}
}

// State returns the current platform-facing game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Level:    g.session.Level(),
		Moves:    g.session.Moves(),
		GameOver: g.session.Phase() == PhaseIdle,
		Paused:   g.session.Paused(),
	}
}

// Snapshot returns the current game snapshot for rendering and tests.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Phase: PhaseIdle}
	}
	snap := g.session.snapshot(g.now())
	snap.Tick = g.tick
	snap.CursorRow = g.cursorRow
	snap.CursorCol = g.cursorCol
	return snap
}

// VirtualPoint maps a terminal cell onto the virtual pixel space, using the
// cell's center so a click anywhere in a cell hits the card drawn there.
func (g *Game) VirtualPoint(col, row, screenW, screenH int) core.Point {
	if screenW < 1 {
		screenW = 1
	}
	if screenH < 1 {
		screenH = 1
	}
	return core.Point{
		X: (2*col + 1) * g.cfg.Layout.VirtualW / (2 * screenW),
		Y: (2*row + 1) * g.cfg.Layout.VirtualH / (2 * screenH),
	}
}
