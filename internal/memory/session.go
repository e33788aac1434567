package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/rank"
)

// Phase machine event names.
const (
	eventStart      = "start"
	eventQualify    = "qualify"
	eventComplete   = "complete"
	eventFinishRun  = "finish_run"
	eventSubmit     = "submit"
	eventSubmitLast = "submit_last"
	eventFail       = "fail"
	eventAbandon    = "abandon"
)

// ProgressBridge is what the gameplay side needs from the progression
// store: lock checks, current-level tracking, leaderboard access, and the
// post-completion advance. *progress.Store implements it.
type ProgressBridge interface {
	Unlocked() int
	Current() int
	SetCurrent(level int) error
	DevMode() bool
	Leaderboard(level int) (*rank.Leaderboard, error)
	RecordRank(level int, m rank.Metric, index int, entry rank.Entry, expectedLen int) error
	AdvanceAfter(completed int) error
}

// rankSlot is a qualifying rank captured at completion, held until the
// player submits a name. expectedLen re-validates the insert.
type rankSlot struct {
	metric      rank.Metric
	index       int
	score       int
	expectedLen int
}

// Session owns one level attempt: the board, the match engine, the slide
// animations, the countdown, and the lifecycle phase machine. All methods
// take an explicit now so the whole session can be driven in tests without
// real time passing.
type Session struct {
	cfg   config.GameConfig
	store ProgressBridge
	rng   *rand.Rand

	machine *fsm.FSM
	engine  *engine
	slider  *slider

	level int
	spec  config.LevelSpec
	board Board

	startedAt time.Time
	lastTick  time.Time
	paused    bool
	pausedAt  time.Time

	moves     int
	timeTaken int
	ranks     []rankSlot
}

// NewSession creates an idle session. StartLevel begins play.
func NewSession(cfg config.GameConfig, store ProgressBridge, rng *rand.Rand) *Session {
	return &Session{
		cfg:     cfg,
		store:   store,
		rng:     rng,
		machine: newPhaseMachine(),
		engine:  newEngine(cfg.Rules, cfg.Celebrations, rng),
		slider:  newSlider(cfg.Rules.SlideSpeed, cfg.Layout.VirtualW),
	}
}

// newPhaseMachine builds the lifecycle transition table. The table is the
// guard for every finish path: a level completes at most once because no
// completion event is legal outside the playing phase.
func newPhaseMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{
				string(PhaseIdle), string(PhasePlaying), string(PhaseLevelComplete),
				string(PhaseRunComplete), string(PhaseFailed),
			}, Dst: string(PhasePlaying)},
			{Name: eventQualify, Src: []string{string(PhasePlaying)}, Dst: string(PhaseNameEntry)},
			{Name: eventComplete, Src: []string{string(PhasePlaying)}, Dst: string(PhaseLevelComplete)},
			{Name: eventFinishRun, Src: []string{string(PhasePlaying)}, Dst: string(PhaseRunComplete)},
			{Name: eventSubmit, Src: []string{string(PhaseNameEntry)}, Dst: string(PhaseLevelComplete)},
			{Name: eventSubmitLast, Src: []string{string(PhaseNameEntry)}, Dst: string(PhaseRunComplete)},
			{Name: eventFail, Src: []string{string(PhasePlaying)}, Dst: string(PhaseFailed)},
			{Name: eventAbandon, Src: []string{
				string(PhasePlaying), string(PhaseNameEntry), string(PhaseLevelComplete),
				string(PhaseRunComplete), string(PhaseFailed),
			}, Dst: string(PhaseIdle)},
		},
		fsm.Callbacks{},
	)
}

// fire runs a transition the caller has already validated against the
// current phase.
func (s *Session) fire(event string) {
	_ = s.machine.Event(context.Background(), event)
}

// Phase returns the session's current lifecycle phase.
func (s *Session) Phase() Phase {
	return Phase(s.machine.Current())
}

// Level returns the level number of the current attempt.
func (s *Session) Level() int {
	return s.level
}

// Moves returns the move counter of the current attempt.
func (s *Session) Moves() int {
	return s.moves
}

// TimeTaken returns the finished attempt's duration in seconds.
func (s *Session) TimeTaken() int {
	return s.timeTaken
}

// Paused reports whether the countdown is frozen.
func (s *Session) Paused() bool {
	return s.paused
}

// StartLevel begins a fresh attempt. The level must be in range and
// unlocked; dev mode bypasses the lock. An in-progress attempt is discarded,
// but a pending name entry must be submitted or abandoned first.
func (s *Session) StartLevel(level int, alphabet []string, now time.Time) error {
	if level < 1 || level > s.cfg.NumLevels() {
		return fmt.Errorf("memory: level %d out of range 1..%d", level, s.cfg.NumLevels())
	}
	if !s.store.DevMode() && level > s.store.Unlocked() {
		return fmt.Errorf("memory: level %d is locked", level)
	}
	if s.Phase() == PhaseNameEntry {
		return errors.New("memory: name entry in progress")
	}
	spec, err := s.cfg.Level(level)
	if err != nil {
		return err
	}

	s.level = level
	s.spec = spec
	s.board = BuildBoard(spec, s.cfg.Layout, alphabet, s.rng)
	s.engine.reset()
	s.slider.reset()
	s.moves = 0
	s.timeTaken = 0
	s.ranks = nil
	s.paused = false
	s.startedAt = now
	s.lastTick = now
	s.fire(eventStart)
	return nil
}

// Click handles a pointer press at p in virtual pixels. Clicks only land
// during play, and are ignored while paused, while a pair is pending, and
// while a celebration message is showing. The move counter increments when
// the second card of a round flips.
func (s *Session) Click(p core.Point, now time.Time) {
	if s.Phase() != PhasePlaying || s.paused {
		return
	}
	if !s.engine.CanFlip(now) {
		return
	}
	index, ok := s.board.HitTest(p)
	if !ok {
		return
	}
	s.board.Cards[index].FaceUp = true
	if s.engine.Flip(index, now) {
		s.moves++
	}
}

// Remaining returns the countdown in whole seconds, clamped at zero.
// Elapsed time is recomputed from the start timestamp on every call, never
// accumulated tick by tick, so it cannot drift.
func (s *Session) Remaining(now time.Time) int {
	if s.paused {
		now = s.pausedAt
	}
	elapsed := int(now.Sub(s.startedAt).Seconds())
	return core.Max(0, s.spec.TimeLimit-elapsed)
}

// Advance runs one simulation tick at now: resolve a pending pair past its
// window, move the slide animations, then check completion and the timer.
// Completion is checked before the timer, so finishing on the final second
// still counts. The returned error is a persistence failure from a finished
// level; gameplay has already moved on, the host should log it.
func (s *Session) Advance(now time.Time) error {
	if s.Phase() != PhasePlaying || s.paused {
		s.lastTick = now
		return nil
	}

	dt := now.Sub(s.lastTick)
	s.lastTick = now

	if outcome, first, second := s.engine.Resolve(&s.board, now); outcome == outcomeMatched {
		s.slider.Start(first, s.board.Cards[first].Rect)
		s.slider.Start(second, s.board.Cards[second].Rect)
	}
	s.slider.Advance(dt)

	if s.board.AllMatched() {
		return s.finishLevel(now)
	}
	if s.Remaining(now) == 0 {
		s.fire(eventFail)
	}
	return nil
}

// finishLevel runs once per completed attempt; the phase machine makes a
// second completion impossible. Qualifying ranks are computed here, before
// any name is captured, and inserted later with these exact indices. Nothing
// between the query and the insert writes the tables, which is what makes
// the captured indices valid; RecordRank still re-validates at insert time.
func (s *Session) finishLevel(now time.Time) error {
	if s.Phase() != PhasePlaying {
		return nil
	}
	s.timeTaken = s.spec.TimeLimit - s.Remaining(now)

	s.ranks = nil
	if !s.store.DevMode() {
		if lb, err := s.store.Leaderboard(s.level); err == nil {
			times := lb.Table(rank.BestTime)
			if index, ok := times.RankFor(s.timeTaken); ok {
				s.ranks = append(s.ranks, rankSlot{
					metric: rank.BestTime, index: index,
					score: s.timeTaken, expectedLen: len(*times),
				})
			}
			moves := lb.Table(rank.LeastMoves)
			if index, ok := moves.RankFor(s.moves); ok {
				s.ranks = append(s.ranks, rankSlot{
					metric: rank.LeastMoves, index: index,
					score: s.moves, expectedLen: len(*moves),
				})
			}
		}
	}

	if len(s.ranks) > 0 {
		s.fire(eventQualify)
		return nil
	}
	return s.completeOut(false)
}

// completeOut advances progression and persists, then routes to the level
// complete screen, or to run complete when the last level just finished.
func (s *Session) completeOut(fromNameEntry bool) error {
	err := s.store.AdvanceAfter(s.level)
	last := s.level >= s.cfg.NumLevels()
	switch {
	case fromNameEntry && last:
		s.fire(eventSubmitLast)
	case fromNameEntry:
		s.fire(eventSubmit)
	case last:
		s.fire(eventFinishRun)
	default:
		s.fire(eventComplete)
	}
	return err
}

// SubmitName finishes name entry. The name is sanitized to the leaderboard
// rules and must be non-empty afterwards. Each qualifying rank is inserted
// at the index captured at completion; an insert rejected because the table
// changed shape is reported, never retried with a fresh rank.
func (s *Session) SubmitName(name string) error {
	if s.Phase() != PhaseNameEntry {
		return errors.New("memory: no name entry in progress")
	}
	clean := rank.SanitizeName(name)
	if clean == "" {
		return errors.New("memory: name must not be empty")
	}

	var firstErr error
	for _, slot := range s.ranks {
		entry := rank.Entry{Name: clean, Score: slot.score}
		if err := s.store.RecordRank(s.level, slot.metric, slot.index, entry, slot.expectedLen); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.ranks = nil

	if err := s.completeOut(true); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Pause freezes the countdown, the pending window, and the message fade.
func (s *Session) Pause(now time.Time) {
	if s.Phase() != PhasePlaying || s.paused {
		return
	}
	s.paused = true
	s.pausedAt = now
}

// Resume shifts every timestamp forward by the paused duration so frozen
// time never counts against the player.
func (s *Session) Resume(now time.Time) {
	if !s.paused {
		return
	}
	d := now.Sub(s.pausedAt)
	s.startedAt = s.startedAt.Add(d)
	s.engine.shift(d)
	s.paused = false
	s.lastTick = now
}

// Abandon discards the attempt outright, captured ranks included. Nothing
// is saved; only a fully finished level is durable.
func (s *Session) Abandon() {
	if s.Phase() == PhaseIdle {
		return
	}
	s.ranks = nil
	s.fire(eventAbandon)
}

// snapshot builds the render-facing view of the session at now.
func (s *Session) snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Phase:       s.Phase(),
		Level:       s.level,
		Moves:       s.moves,
		TimeLimit:   s.spec.TimeLimit,
		Remaining:   s.Remaining(now),
		TimeTaken:   s.timeTaken,
		Paused:      s.paused,
		Pending:     s.engine.Pending(),
		Message:     s.engine.Message(now),
		MessageFade: s.engine.MessageFade(now),
	}

	snap.Cards = make([]CardView, len(s.board.Cards))
	for i := range s.board.Cards {
		c := &s.board.Cards[i]
		view := CardView{
			Value:   c.Value,
			Rect:    c.Rect,
			FaceUp:  c.FaceUp,
			Matched: c.Matched,
			Visible: !s.slider.Gone(i),
		}
		if x, ok := s.slider.OffsetX(i); ok {
			view.Rect.X = x
		}
		snap.Cards[i] = view
	}

	for _, slot := range s.ranks {
		snap.Ranks = append(snap.Ranks, RankView{
			Metric: slot.metric, Index: slot.index, Score: slot.score,
		})
	}
	return snap
}
