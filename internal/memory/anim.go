package memory

import (
	"time"

	"github.com/pairgrid/pairgrid/internal/core"
)

// slide is the animated horizontal position of one matched card.
type slide struct {
	x      float64 // current left edge in virtual pixels
	target float64 // one card width past the right screen edge
}

// slider is the presentation-only animation layer for matched cards. It is
// keyed by card index and never touches gameplay state; the board stays the
// single source of truth for matched/unmatched.
type slider struct {
	active map[int]*slide
	gone   map[int]bool // slid past the right screen edge, no longer drawn

	speed float64 // virtual pixels per second
	width int     // right screen edge
}

func newSlider(speed, width int) *slider {
	return &slider{
		active: make(map[int]*slide),
		gone:   make(map[int]bool),
		speed:  float64(speed),
		width:  width,
	}
}

// reset drops all animation state for a new level.
func (s *slider) reset() {
	s.active = make(map[int]*slide)
	s.gone = make(map[int]bool)
}

// Start begins sliding the card with the given index and rect. The card
// moves straight right until fully past the screen edge.
func (s *slider) Start(index int, r core.Rect) {
	s.active[index] = &slide{
		x:      float64(r.X),
		target: float64(s.width + r.W),
	}
}

// Advance moves every sliding card by speed*dt, snapping to the target when
// within one step of it. A card whose left edge passes the screen edge is
// marked gone and stops being drawn.
func (s *slider) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	step := s.speed * dt.Seconds()
	for index, sl := range s.active {
		if sl.target-sl.x <= step {
			sl.x = sl.target
		} else {
			sl.x += step
		}
		if sl.x > float64(s.width) {
			s.gone[index] = true
		}
		if sl.x >= sl.target {
			delete(s.active, index)
		}
	}
}

// OffsetX returns the animated left edge for a sliding card.
func (s *slider) OffsetX(index int) (int, bool) {
	sl, ok := s.active[index]
	if !ok {
		return 0, false
	}
	return int(sl.x), true
}

// Gone reports whether the card has slid fully off-screen.
func (s *slider) Gone(index int) bool {
	return s.gone[index]
}

// Sliding reports whether any card is still animating.
func (s *slider) Sliding() bool {
	return len(s.active) > 0
}
