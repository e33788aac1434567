package memory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pairgrid/pairgrid/internal/config"
)

// pairBoard is a minimal two-card board for driving the engine directly.
func pairBoard(a, b Symbol) Board {
	return Board{Rows: 1, Cols: 2, Cards: []Card{{Value: a}, {Value: b}}}
}

func newTestEngine() *engine {
	cfg := config.DefaultGameConfig()
	return newEngine(cfg.Rules, []string{"Nice!"}, rand.New(rand.NewSource(1)))
}

func TestEngineResolveWaitsForWindow(t *testing.T) {
	e := newTestEngine()
	b := pairBoard("A", "A")
	base := time.Now()

	if e.Flip(0, base) {
		t.Error("First flip should not complete a move")
	}
	if !e.Flip(1, base.Add(100*time.Millisecond)) {
		t.Error("Second flip should complete a move")
	}
	if !e.Pending() {
		t.Fatal("Pair should be pending after the second flip")
	}

	// The window runs from the second flip
	if outcome, _, _ := e.Resolve(&b, base.Add(600*time.Millisecond)); outcome != outcomeNone {
		t.Errorf("Resolved %v at 500ms into the window, expected none", outcome)
	}
	if b.Cards[0].Matched {
		t.Error("Card matched before the window elapsed")
	}

	outcome, first, second := e.Resolve(&b, base.Add(700*time.Millisecond))
	if outcome != outcomeMatched {
		t.Fatalf("Expected a match at 600ms, got %v", outcome)
	}
	if first != 0 || second != 1 {
		t.Errorf("Expected pair indices (0,1), got (%d,%d)", first, second)
	}
	if !b.Cards[0].Matched || !b.Cards[1].Matched {
		t.Error("Both cards should be matched")
	}
	if e.Pending() {
		t.Error("Round state should clear after resolution")
	}
}

func TestEngineResolveExactBoundary(t *testing.T) {
	e := newTestEngine()
	b := pairBoard("A", "A")
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)

	// Exactly at the flip delay the window has elapsed
	if outcome, _, _ := e.Resolve(&b, base.Add(600*time.Millisecond)); outcome != outcomeMatched {
		t.Errorf("Expected resolution exactly at the window edge, got %v", outcome)
	}
}

func TestEngineMismatchFlipsBackDown(t *testing.T) {
	e := newTestEngine()
	b := pairBoard("A", "B")
	b.Cards[0].FaceUp = true
	b.Cards[1].FaceUp = true
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)

	outcome, _, _ := e.Resolve(&b, base.Add(time.Second))
	if outcome != outcomeMismatched {
		t.Fatalf("Expected a mismatch, got %v", outcome)
	}
	if b.Cards[0].FaceUp || b.Cards[1].FaceUp {
		t.Error("Mismatched cards should flip back down")
	}
	if b.Cards[0].Matched || b.Cards[1].Matched {
		t.Error("Mismatched cards should not be matched")
	}
	if e.Message(base.Add(time.Second)) != "" {
		t.Error("Mismatch should not spawn a celebration message")
	}
	if !e.CanFlip(base.Add(time.Second)) {
		t.Error("Flips should unblock immediately after a mismatch")
	}
}

func TestEngineCelebrationLifetime(t *testing.T) {
	e := newTestEngine()
	b := pairBoard("A", "A")
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)
	e.Resolve(&b, base.Add(600*time.Millisecond))

	at := base.Add(600 * time.Millisecond)
	if got := e.Message(at); got != "Nice!" {
		t.Fatalf("Expected celebration message, got %q", got)
	}
	if got := e.MessageFade(at); got != 1 {
		t.Errorf("Fresh message fade = %v, expected 1", got)
	}
	if e.CanFlip(at) {
		t.Error("Flips should be blocked while the message shows")
	}

	half := at.Add(500 * time.Millisecond)
	if got := e.MessageFade(half); got != 0.5 {
		t.Errorf("Fade at half life = %v, expected 0.5", got)
	}

	done := at.Add(1000 * time.Millisecond)
	if e.MessageActive(done) {
		t.Error("Message should expire at the end of the fade")
	}
	if got := e.MessageFade(done); got != 0 {
		t.Errorf("Expired message fade = %v, expected 0", got)
	}
	if !e.CanFlip(done) {
		t.Error("Flips should unblock once the message expires")
	}
}

func TestEngineFlipBlockedWhilePending(t *testing.T) {
	e := newTestEngine()
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)
	if e.CanFlip(base.Add(300 * time.Millisecond)) {
		t.Error("Flips should be blocked while a pair is pending")
	}
}

func TestEngineShiftExtendsWindow(t *testing.T) {
	e := newTestEngine()
	b := pairBoard("A", "A")
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)

	// A 5s pause moves the window forward wholesale
	e.shift(5 * time.Second)

	if outcome, _, _ := e.Resolve(&b, base.Add(5500*time.Millisecond)); outcome != outcomeNone {
		t.Errorf("Window should not have elapsed yet, got %v", outcome)
	}
	if outcome, _, _ := e.Resolve(&b, base.Add(5700*time.Millisecond)); outcome != outcomeMatched {
		t.Errorf("Expected a match after the shifted window, got %v", outcome)
	}
}

func TestEngineResetClearsRound(t *testing.T) {
	e := newTestEngine()
	base := time.Now()

	e.Flip(0, base)
	e.Flip(1, base)
	e.reset()

	if e.Pending() {
		t.Error("Reset should clear the pending pair")
	}
	if !e.CanFlip(base) {
		t.Error("Reset should unblock flips")
	}
	if e.first != -1 || e.second != -1 {
		t.Errorf("Reset should clear indices, got (%d,%d)", e.first, e.second)
	}
}
