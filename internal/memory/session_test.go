package memory

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/rank"
)

// fakeBridge is an in-memory ProgressBridge for driving sessions in tests.
type fakeBridge struct {
	unlocked int
	current  int
	dev      bool
	boards   map[int]*rank.Leaderboard

	advanced []int
	records  []recordedRank

	recordErr  error
	advanceErr error
}

type recordedRank struct {
	level       int
	metric      rank.Metric
	index       int
	entry       rank.Entry
	expectedLen int
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		unlocked: 1,
		current:  1,
		boards:   make(map[int]*rank.Leaderboard),
	}
}

func (f *fakeBridge) Unlocked() int { return f.unlocked }
func (f *fakeBridge) Current() int  { return f.current }
func (f *fakeBridge) DevMode() bool { return f.dev }

func (f *fakeBridge) SetCurrent(level int) error {
	f.current = level
	return nil
}

func (f *fakeBridge) Leaderboard(level int) (*rank.Leaderboard, error) {
	lb, ok := f.boards[level]
	if !ok {
		lb = &rank.Leaderboard{}
		f.boards[level] = lb
	}
	return lb, nil
}

func (f *fakeBridge) RecordRank(level int, m rank.Metric, index int, entry rank.Entry, expectedLen int) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, recordedRank{level, m, index, entry, expectedLen})
	lb, _ := f.Leaderboard(level)
	return lb.Table(m).InsertAt(index, entry, expectedLen)
}

func (f *fakeBridge) AdvanceAfter(completed int) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	f.advanced = append(f.advanced, completed)
	if next := completed + 1; next > f.unlocked {
		f.unlocked = next
	}
	f.current = f.unlocked
	return nil
}

// fillBoards stuffs both tables for a level so no finish can qualify.
func fillBoards(f *fakeBridge, level int) {
	lb, _ := f.Leaderboard(level)
	for i := 0; i < rank.MaxRanks; i++ {
		lb.BestTime = append(lb.BestTime, rank.Entry{Name: "AAA", Score: 0})
		lb.LeastMoves = append(lb.LeastMoves, rank.Entry{Name: "AAA", Score: 0})
	}
}

// testConfig is the default ladder shrunk to single-pair levels so a level
// finishes in one match.
func testConfig() config.GameConfig {
	cfg := config.DefaultGameConfig()
	levels := make([]config.LevelSpec, 10)
	for i := range levels {
		levels[i] = config.LevelSpec{Rows: 1, Cols: 2, TimeLimit: 60}
	}
	cfg.Levels = levels
	return cfg
}

func newTestSession(cfg config.GameConfig, bridge *fakeBridge, seed int64) *Session {
	return NewSession(cfg, bridge, rand.New(rand.NewSource(seed)))
}

// clickCard clicks the center of the given card.
func clickCard(s *Session, index int, now time.Time) {
	s.Click(s.board.Cards[index].Rect.Center(), now)
}

func findMismatch(b *Board) (int, int) {
	for i := range b.Cards {
		for j := i + 1; j < len(b.Cards); j++ {
			if b.Cards[i].Value != b.Cards[j].Value {
				return i, j
			}
		}
	}
	return -1, -1
}

func findPair(b *Board) (int, int) {
	for i := range b.Cards {
		for j := i + 1; j < len(b.Cards); j++ {
			if b.Cards[i].Value == b.Cards[j].Value {
				return i, j
			}
		}
	}
	return -1, -1
}

func TestSessionStartLevel(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 1)
	base := time.Now()

	if got := s.Phase(); got != PhaseIdle {
		t.Fatalf("New session phase = %s, expected idle", got)
	}

	if err := s.StartLevel(0, testAlphabet, base); err == nil {
		t.Error("Expected error for level 0")
	}
	if err := s.StartLevel(11, testAlphabet, base); err == nil {
		t.Error("Expected error for level 11")
	}
	if err := s.StartLevel(2, testAlphabet, base); err == nil {
		t.Error("Expected error for a locked level")
	}

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	if got := s.Phase(); got != PhasePlaying {
		t.Errorf("Phase after start = %s, expected playing", got)
	}
	if len(s.board.Cards) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(s.board.Cards))
	}
	if s.Remaining(base) != 60 {
		t.Errorf("Remaining at start = %d, expected 60", s.Remaining(base))
	}

	// Dev mode bypasses the lock
	bridge.dev = true
	if err := s.StartLevel(9, testAlphabet, base); err != nil {
		t.Errorf("Dev mode StartLevel(9) failed: %v", err)
	}
}

func TestSessionMatchCompletesLevel(t *testing.T) {
	bridge := newFakeBridge()
	fillBoards(bridge, 1)
	s := newTestSession(testConfig(), bridge, 7)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	clickCard(s, 0, base.Add(1*time.Second))
	if !s.board.Cards[0].FaceUp {
		t.Fatal("First card did not flip")
	}
	if s.moves != 0 {
		t.Errorf("Moves after one flip = %d, expected 0", s.moves)
	}

	clickCard(s, 1, base.Add(1200*time.Millisecond))
	if s.moves != 1 {
		t.Errorf("Moves after the pair = %d, expected 1", s.moves)
	}
	if !s.engine.Pending() {
		t.Fatal("Pair should be pending")
	}

	// Inside the resolution window nothing is decided yet
	if err := s.Advance(base.Add(1500 * time.Millisecond)); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	if s.board.Cards[0].Matched {
		t.Error("Pair resolved before the flip delay elapsed")
	}
	if got := s.Phase(); got != PhasePlaying {
		t.Fatalf("Phase = %s, expected playing", got)
	}

	// Past the window the pair matches and the board completes
	if err := s.Advance(base.Add(1900 * time.Millisecond)); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	if !s.board.Cards[0].Matched || !s.board.Cards[1].Matched {
		t.Error("Pair did not match")
	}
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Errorf("Phase = %s, expected level_complete", got)
	}
	if s.timeTaken != 1 {
		t.Errorf("Time taken = %d, expected 1", s.timeTaken)
	}
	if !reflect.DeepEqual(bridge.advanced, []int{1}) {
		t.Errorf("AdvanceAfter calls = %v, expected [1]", bridge.advanced)
	}
	if bridge.unlocked != 2 {
		t.Errorf("Unlocked = %d, expected 2", bridge.unlocked)
	}

	snap := s.snapshot(base.Add(1900 * time.Millisecond))
	if snap.Message == "" {
		t.Error("Match should spawn a celebration message")
	}
	if snap.MessageFade != 1 {
		t.Errorf("Fresh message fade = %v, expected 1", snap.MessageFade)
	}

	// Extra ticks after completion change nothing
	if err := s.Advance(base.Add(3 * time.Second)); err != nil {
		t.Fatalf("Advance() after completion failed: %v", err)
	}
	if len(bridge.advanced) != 1 {
		t.Errorf("Completion ran twice: %v", bridge.advanced)
	}
}

func TestSessionMismatchKeepsPlaying(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0] = config.LevelSpec{Rows: 2, Cols: 2, TimeLimit: 60}
	bridge := newFakeBridge()
	s := newTestSession(cfg, bridge, 5)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	i, j := findMismatch(&s.board)
	if i < 0 {
		t.Fatal("No mismatched pair on a 2x2 board")
	}
	clickCard(s, i, base.Add(1*time.Second))
	clickCard(s, j, base.Add(1200*time.Millisecond))
	if s.moves != 1 {
		t.Errorf("Moves = %d, expected 1", s.moves)
	}

	s.Advance(base.Add(1900 * time.Millisecond))

	if s.board.Cards[i].FaceUp || s.board.Cards[j].FaceUp {
		t.Error("Mismatched pair should flip back down")
	}
	if got := s.Phase(); got != PhasePlaying {
		t.Errorf("Phase = %s, expected playing", got)
	}
	if snap := s.snapshot(base.Add(1900 * time.Millisecond)); snap.Message != "" {
		t.Errorf("Mismatch spawned message %q", snap.Message)
	}

	// The board is still playable
	p, q := findPair(&s.board)
	clickCard(s, p, base.Add(2*time.Second))
	clickCard(s, q, base.Add(2200*time.Millisecond))
	s.Advance(base.Add(2900 * time.Millisecond))
	if !s.board.Cards[p].Matched {
		t.Error("Later pair should still match")
	}
	if s.moves != 2 {
		t.Errorf("Moves = %d, expected 2", s.moves)
	}
}

func TestSessionClicksIgnoredDuringResolutionWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0] = config.LevelSpec{Rows: 2, Cols: 2, TimeLimit: 60}
	bridge := newFakeBridge()
	s := newTestSession(cfg, bridge, 5)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	i, j := findMismatch(&s.board)
	clickCard(s, i, base.Add(1*time.Second))
	clickCard(s, j, base.Add(1100*time.Millisecond))

	// A third card clicked inside the window stays down
	var third int
	for k := range s.board.Cards {
		if k != i && k != j {
			third = k
			break
		}
	}
	clickCard(s, third, base.Add(1300*time.Millisecond))
	if s.board.Cards[third].FaceUp {
		t.Error("Click during the resolution window should be ignored")
	}
	if s.moves != 1 {
		t.Errorf("Ignored click changed moves to %d", s.moves)
	}

	// After the window closes the same click lands
	s.Advance(base.Add(1800 * time.Millisecond))
	clickCard(s, third, base.Add(1900*time.Millisecond))
	if !s.board.Cards[third].FaceUp {
		t.Error("Click after the window should flip the card")
	}
}

func TestSessionClicksIgnoredDuringCelebration(t *testing.T) {
	cfg := testConfig()
	cfg.Levels[0] = config.LevelSpec{Rows: 2, Cols: 2, TimeLimit: 60}
	bridge := newFakeBridge()
	s := newTestSession(cfg, bridge, 5)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	p, q := findPair(&s.board)
	clickCard(s, p, base.Add(1*time.Second))
	clickCard(s, q, base.Add(1100*time.Millisecond))
	s.Advance(base.Add(1800 * time.Millisecond))
	if !s.board.Cards[p].Matched {
		t.Fatal("Pair should have matched")
	}

	// The celebration message blocks flips until it fades
	i, j := findMismatch(&s.board)
	target := i
	if s.board.Cards[target].Matched {
		target = j
	}
	clickCard(s, target, base.Add(2300*time.Millisecond))
	if s.board.Cards[target].FaceUp {
		t.Error("Click during the celebration message should be ignored")
	}

	clickCard(s, target, base.Add(2900*time.Millisecond))
	if !s.board.Cards[target].FaceUp {
		t.Error("Click after the message faded should flip the card")
	}
}

func TestSessionTimeoutFails(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 9)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	s.Advance(base.Add(59 * time.Second))
	if got := s.Phase(); got != PhasePlaying {
		t.Fatalf("Phase with 1s left = %s, expected playing", got)
	}
	if got := s.Remaining(base.Add(59 * time.Second)); got != 1 {
		t.Errorf("Remaining = %d, expected 1", got)
	}

	s.Advance(base.Add(60 * time.Second))
	if got := s.Phase(); got != PhaseFailed {
		t.Fatalf("Phase at timeout = %s, expected failed", got)
	}
	if len(bridge.advanced) != 0 {
		t.Errorf("Failed level advanced progression: %v", bridge.advanced)
	}

	// Failure is terminal for the attempt
	clickCard(s, 0, base.Add(61*time.Second))
	if s.board.Cards[0].FaceUp {
		t.Error("Clicks should be dead after failure")
	}

	// Retrying resets the attempt
	if err := s.StartLevel(1, testAlphabet, base.Add(62*time.Second)); err != nil {
		t.Fatalf("Retry StartLevel failed: %v", err)
	}
	if s.moves != 0 || s.timeTaken != 0 {
		t.Errorf("Retry kept counters: moves=%d timeTaken=%d", s.moves, s.timeTaken)
	}
}

func TestSessionCompletionOnFinalSecond(t *testing.T) {
	bridge := newFakeBridge()
	fillBoards(bridge, 1)
	s := newTestSession(testConfig(), bridge, 2)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	clickCard(s, 0, base.Add(59*time.Second))
	clickCard(s, 1, base.Add(59200*time.Millisecond))

	// The tick where the countdown hits zero still resolves the match first
	s.Advance(base.Add(60 * time.Second))
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Fatalf("Phase = %s, expected level_complete", got)
	}
	if s.timeTaken != 60 {
		t.Errorf("Time taken = %d, expected the full 60", s.timeTaken)
	}
}

func TestSessionQualifyAndSubmitName(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 3)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))

	if got := s.Phase(); got != PhaseNameEntry {
		t.Fatalf("Phase = %s, expected name_entry", got)
	}
	if len(bridge.advanced) != 0 {
		t.Error("Progression advanced before the name was submitted")
	}

	snap := s.snapshot(base.Add(2 * time.Second))
	if len(snap.Ranks) != 2 {
		t.Fatalf("Expected 2 qualifying ranks, got %d", len(snap.Ranks))
	}
	if snap.Ranks[0].Metric != rank.BestTime || snap.Ranks[0].Index != 0 {
		t.Errorf("Best time rank = %+v, expected index 0", snap.Ranks[0])
	}
	if snap.Ranks[1].Metric != rank.LeastMoves || snap.Ranks[1].Score != 1 {
		t.Errorf("Least moves rank = %+v, expected score 1", snap.Ranks[1])
	}

	if err := s.SubmitName("  Zoe!  "); err != nil {
		t.Fatalf("SubmitName() failed: %v", err)
	}
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Errorf("Phase after submit = %s, expected level_complete", got)
	}
	if len(bridge.records) != 2 {
		t.Fatalf("Expected 2 recorded ranks, got %d", len(bridge.records))
	}
	for _, r := range bridge.records {
		if r.entry.Name != "Zoe!" {
			t.Errorf("Recorded name %q, expected sanitized %q", r.entry.Name, "Zoe!")
		}
		if r.expectedLen != 0 {
			t.Errorf("Expected empty-table insert, expectedLen = %d", r.expectedLen)
		}
	}
	lb := bridge.boards[1]
	if len(lb.BestTime) != 1 || lb.BestTime[0].Score != s.timeTaken {
		t.Errorf("Best time table = %+v", lb.BestTime)
	}
	if len(lb.LeastMoves) != 1 || lb.LeastMoves[0].Score != 1 {
		t.Errorf("Least moves table = %+v", lb.LeastMoves)
	}
	if !reflect.DeepEqual(bridge.advanced, []int{1}) {
		t.Errorf("AdvanceAfter calls = %v, expected [1]", bridge.advanced)
	}
}

func TestSessionNameEntryGuards(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 3)
	base := time.Now()

	// Submit with no name entry in progress
	if err := s.SubmitName("Zoe"); err == nil {
		t.Error("Expected error submitting outside name entry")
	}

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))
	if got := s.Phase(); got != PhaseNameEntry {
		t.Fatalf("Phase = %s, expected name_entry", got)
	}

	// Blank names are rejected and the prompt stays up
	if err := s.SubmitName("   "); err == nil {
		t.Error("Expected error for a blank name")
	}
	if got := s.Phase(); got != PhaseNameEntry {
		t.Errorf("Phase after blank submit = %s, expected name_entry", got)
	}

	// A new level cannot start over a pending name entry
	if err := s.StartLevel(1, testAlphabet, base.Add(3*time.Second)); err == nil {
		t.Error("Expected error starting a level during name entry")
	}

	// Abandoning drops the prompt and the captured ranks
	s.Abandon()
	if got := s.Phase(); got != PhaseIdle {
		t.Errorf("Phase after abandon = %s, expected idle", got)
	}
	if len(bridge.records) != 0 || len(bridge.advanced) != 0 {
		t.Error("Abandoned name entry should record nothing")
	}
}

func TestSessionStaleRankSurfaced(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 3)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))

	bridge.recordErr = rank.ErrTableChanged
	err := s.SubmitName("Zoe")
	if !errors.Is(err, rank.ErrTableChanged) {
		t.Errorf("SubmitName() error = %v, expected ErrTableChanged", err)
	}

	// The rejected insert does not strand the player in name entry
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Errorf("Phase = %s, expected level_complete", got)
	}
	if !reflect.DeepEqual(bridge.advanced, []int{1}) {
		t.Errorf("AdvanceAfter calls = %v, expected [1]", bridge.advanced)
	}
}

func TestSessionPersistErrorSurfaced(t *testing.T) {
	bridge := newFakeBridge()
	fillBoards(bridge, 1)
	bridge.advanceErr = errors.New("disk full")
	s := newTestSession(testConfig(), bridge, 3)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))

	err := s.Advance(base.Add(1900 * time.Millisecond))
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Advance() error = %v, expected the persistence failure", err)
	}

	// Gameplay moved on regardless
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Errorf("Phase = %s, expected level_complete", got)
	}
}

func TestSessionRunComplete(t *testing.T) {
	bridge := newFakeBridge()
	bridge.unlocked = 10
	fillBoards(bridge, 10)
	s := newTestSession(testConfig(), bridge, 4)
	base := time.Now()

	if err := s.StartLevel(10, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(10) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))

	if got := s.Phase(); got != PhaseRunComplete {
		t.Fatalf("Phase = %s, expected run_complete", got)
	}
	if !reflect.DeepEqual(bridge.advanced, []int{10}) {
		t.Errorf("AdvanceAfter calls = %v, expected [10]", bridge.advanced)
	}

	// A fresh level can start from the run complete screen
	if err := s.StartLevel(1, testAlphabet, base.Add(5*time.Second)); err != nil {
		t.Errorf("StartLevel after run complete failed: %v", err)
	}
}

func TestSessionQualifiedRunCompleteRoutesThroughNameEntry(t *testing.T) {
	bridge := newFakeBridge()
	bridge.unlocked = 10
	s := newTestSession(testConfig(), bridge, 4)
	base := time.Now()

	if err := s.StartLevel(10, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(10) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))

	if got := s.Phase(); got != PhaseNameEntry {
		t.Fatalf("Phase = %s, expected name_entry", got)
	}
	if err := s.SubmitName("Zoe"); err != nil {
		t.Fatalf("SubmitName() failed: %v", err)
	}
	if got := s.Phase(); got != PhaseRunComplete {
		t.Errorf("Phase after submit = %s, expected run_complete", got)
	}
}

func TestSessionDevModeSkipsNameEntry(t *testing.T) {
	bridge := newFakeBridge()
	bridge.dev = true
	s := newTestSession(testConfig(), bridge, 6)
	base := time.Now()

	if err := s.StartLevel(5, testAlphabet, base); err != nil {
		t.Fatalf("Dev mode StartLevel(5) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))
	s.Advance(base.Add(1900 * time.Millisecond))

	// Empty tables would qualify, but dev completions never rank
	if got := s.Phase(); got != PhaseLevelComplete {
		t.Errorf("Phase = %s, expected level_complete", got)
	}
	if len(bridge.records) != 0 {
		t.Errorf("Dev completion recorded ranks: %+v", bridge.records)
	}
}

func TestSessionPauseFreezesEverything(t *testing.T) {
	bridge := newFakeBridge()
	fillBoards(bridge, 1)
	s := newTestSession(testConfig(), bridge, 8)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))
	clickCard(s, 1, base.Add(1200*time.Millisecond))

	s.Pause(base.Add(1400 * time.Millisecond))
	if !s.Paused() {
		t.Fatal("Session should be paused")
	}
	s.Pause(base.Add(1500 * time.Millisecond)) // second pause is a no-op

	// A long paused stretch changes nothing
	s.Advance(base.Add(5 * time.Second))
	if s.board.Cards[0].Matched {
		t.Error("Pending pair resolved while paused")
	}
	if got := s.Remaining(base.Add(5 * time.Second)); got != 59 {
		t.Errorf("Remaining while paused = %d, expected 59", got)
	}

	// Resume 20s later: the frozen time does not count anywhere
	s.Resume(base.Add(21400 * time.Millisecond))
	if s.Paused() {
		t.Fatal("Session should have resumed")
	}
	if got := s.Remaining(base.Add(21400 * time.Millisecond)); got != 59 {
		t.Errorf("Remaining after resume = %d, expected 59", got)
	}

	// The pending window picks up where it left off
	s.Advance(base.Add(21500 * time.Millisecond))
	if s.board.Cards[0].Matched {
		t.Error("Window elapsed during the pause")
	}
	s.Advance(base.Add(21900 * time.Millisecond))
	if !s.board.Cards[0].Matched {
		t.Error("Pair should resolve once the shifted window elapses")
	}
	if s.timeTaken != 1 {
		t.Errorf("Time taken = %d, expected 1 (pause excluded)", s.timeTaken)
	}

	// Resume with nothing paused is a no-op
	s.Resume(base.Add(30 * time.Second))
}

func TestSessionAbandonDiscards(t *testing.T) {
	bridge := newFakeBridge()
	s := newTestSession(testConfig(), bridge, 8)
	base := time.Now()

	if err := s.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	clickCard(s, 0, base.Add(1*time.Second))

	s.Abandon()
	if got := s.Phase(); got != PhaseIdle {
		t.Fatalf("Phase after abandon = %s, expected idle", got)
	}
	if len(bridge.advanced) != 0 {
		t.Error("Abandon should not advance progression")
	}

	// Idle sessions ignore everything
	s.Abandon()
	clickCard(s, 0, base.Add(2*time.Second))
	if err := s.Advance(base.Add(2 * time.Second)); err != nil {
		t.Errorf("Advance() on idle session failed: %v", err)
	}
}

func TestSessionDeterminism(t *testing.T) {
	// Two sessions with the same seed should shuffle and play identically
	cfg := testConfig()
	cfg.Levels[0] = config.LevelSpec{Rows: 4, Cols: 4, TimeLimit: 90}
	base := time.Now()

	s1 := newTestSession(cfg, newFakeBridge(), 99)
	s2 := newTestSession(cfg, newFakeBridge(), 99)

	if err := s1.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}
	if err := s2.StartLevel(1, testAlphabet, base); err != nil {
		t.Fatalf("StartLevel(1) failed: %v", err)
	}

	for i := range s1.board.Cards {
		if s1.board.Cards[i].Value != s2.board.Cards[i].Value {
			t.Fatalf("Card %d differs: %q vs %q", i, s1.board.Cards[i].Value, s2.board.Cards[i].Value)
		}
	}

	p, q := findPair(&s1.board)
	for _, s := range []*Session{s1, s2} {
		clickCard(s, p, base.Add(1*time.Second))
		clickCard(s, q, base.Add(1200*time.Millisecond))
		s.Advance(base.Add(1900 * time.Millisecond))
	}

	snap1 := s1.snapshot(base.Add(2 * time.Second))
	snap2 := s2.snapshot(base.Add(2 * time.Second))
	if !reflect.DeepEqual(snap1, snap2) {
		t.Errorf("Snapshots diverged:\n%+v\nvs\n%+v", snap1, snap2)
	}
}
