package memory

import (
	"math/rand"
	"time"

	"github.com/pairgrid/pairgrid/internal/config"
)

// engine resolves flipped pairs. It tracks the two face-up card indices, the
// pending compare window, and the celebration message lifetime. Card
// references are indices into the session's board, never pointers, so the
// board can be rebuilt between levels without dangling state.
type engine struct {
	first  int // index of the first face-up card this round, -1 when none
	second int

	pending      bool
	pendingSince time.Time

	message      string
	messageSince time.Time

	flipDelay time.Duration
	fade      time.Duration

	celebrations []string
	rng          *rand.Rand
}

// matchOutcome is what Resolve decided about the pending pair.
type matchOutcome int

const (
	outcomeNone matchOutcome = iota // window still open or nothing pending
	outcomeMatched
	outcomeMismatched
)

func newEngine(rules config.RulesConfig, celebrations []string, rng *rand.Rand) *engine {
	return &engine{
		first:        -1,
		second:       -1,
		flipDelay:    rules.FlipDelay(),
		fade:         rules.MessageFade(),
		celebrations: celebrations,
		rng:          rng,
	}
}

// reset clears all round state for a new level.
func (e *engine) reset() {
	e.first = -1
	e.second = -1
	e.pending = false
	e.message = ""
}

// CanFlip reports whether a new card may flip at now. Flips are blocked
// while a pair is pending and while a celebration message is showing.
func (e *engine) CanFlip(now time.Time) bool {
	return !e.pending && !e.MessageActive(now)
}

// Flip records a newly flipped card. The second card of a round opens the
// pending window and returns true; the move counter increments exactly then.
func (e *engine) Flip(index int, now time.Time) bool {
	if e.first == -1 {
		e.first = index
		return false
	}
	e.second = index
	e.pending = true
	e.pendingSince = now
	return true
}

// Resolve judges the pending pair once the window has elapsed. A match marks
// both cards matched and spawns a celebration message; a mismatch flips both
// back down. Either way the round state clears and the pair indices are
// returned. Before the window elapses this is a no-op.
func (e *engine) Resolve(b *Board, now time.Time) (matchOutcome, int, int) {
	if !e.pending || now.Sub(e.pendingSince) < e.flipDelay {
		return outcomeNone, -1, -1
	}

	first, second := e.first, e.second
	e.first = -1
	e.second = -1
	e.pending = false

	if b.Cards[first].Value == b.Cards[second].Value {
		b.Cards[first].Matched = true
		b.Cards[second].Matched = true
		e.message = e.celebrations[e.rng.Intn(len(e.celebrations))]
		e.messageSince = now
		return outcomeMatched, first, second
	}

	b.Cards[first].FaceUp = false
	b.Cards[second].FaceUp = false
	return outcomeMismatched, first, second
}

// Pending reports whether a pair is held in the resolution window.
func (e *engine) Pending() bool {
	return e.pending
}

// MessageActive reports whether a celebration message is still showing.
func (e *engine) MessageActive(now time.Time) bool {
	return e.message != "" && now.Sub(e.messageSince) < e.fade
}

// Message returns the active celebration text, or empty.
func (e *engine) Message(now time.Time) string {
	if !e.MessageActive(now) {
		return ""
	}
	return e.message
}

// MessageFade returns the remaining message life as a fraction: 1 when the
// message appears, falling linearly to 0 at the end of the fade.
func (e *engine) MessageFade(now time.Time) float64 {
	if !e.MessageActive(now) {
		return 0
	}
	frac := 1 - float64(now.Sub(e.messageSince))/float64(e.fade)
	if frac < 0 {
		return 0
	}
	return frac
}

// shift moves the engine's timestamps forward by d. Called when a pause
// ends so the pending window and message fade do not run down while frozen.
func (e *engine) shift(d time.Duration) {
	if e.pending {
		e.pendingSince = e.pendingSince.Add(d)
	}
	if e.message != "" {
		e.messageSince = e.messageSince.Add(d)
	}
}
