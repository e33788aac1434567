package memory

import (
	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/rank"
)

// Phase is the session's position in the level lifecycle.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePlaying       Phase = "playing"
	PhaseNameEntry     Phase = "name_entry"
	PhaseLevelComplete Phase = "level_complete"
	PhaseRunComplete   Phase = "run_complete"
	PhaseFailed        Phase = "failed"
)

// CardView is one card as the renderer should draw it: the rect carries the
// slide offset for matched cards, Visible goes false once a card has slid
// past the right screen edge.
type CardView struct {
	Value   Symbol
	Rect    core.Rect
	FaceUp  bool
	Matched bool
	Visible bool
}

// RankView is a qualifying rank awaiting the player's name.
type RankView struct {
	Metric rank.Metric
	Index  int
	Score  int
}

// Snapshot captures the observable game state for rendering and for
// determinism testing. Everything a display needs is here; nothing holds
// references into the live board.
type Snapshot struct {
	Tick  uint64
	Phase Phase

	Level     int
	Moves     int
	TimeLimit int // seconds
	Remaining int // seconds, clamped at 0
	TimeTaken int // seconds, set once the level finishes
	Paused    bool

	Pending     bool    // two cards held in the resolution window
	Message     string  // active celebration text, empty when none
	MessageFade float64 // 1 when fresh, linearly down to 0

	Cards []CardView
	Ranks []RankView // qualifying ranks awaiting a name, name-entry phase only

	CursorRow, CursorCol int
}
