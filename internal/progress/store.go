package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pairgrid/pairgrid/internal/rank"
)

// Store owns the save file and the in-memory progress state. All reads and
// writes of unlocked levels, leaderboards, and settings go through it, so
// there is exactly one place that decides when the file is written.
type Store struct {
	path  string
	state *SaveState

	// Dev mode unlocks everything for the current process only. While it is
	// active every write is suppressed so the temporary unlock never leaks
	// into the save file.
	devMode       bool
	savedUnlocked int
}

// NewStore creates a store bound to the given save file path.
// The file is not read until Load is called.
func NewStore(path string) (*Store, error) {
	// Expand ~ to home directory
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("progress: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return &Store{path: path, state: DefaultState()}, nil
}

// Path returns the resolved save file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the save file and replaces the in-memory state.
//
// A missing file is a fresh install and yields the default state with
// placeholder leaderboards. A file that exists but cannot be accepted also
// yields the default state, and the validation error is returned so the
// caller can log that saved progress was discarded. The store is usable
// either way.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.state = DefaultState()
		return nil
	}
	if err != nil {
		s.state = DefaultState()
		return fmt.Errorf("progress: cannot read save file: %w", err)
	}

	state, verr := Validate(data)
	if verr != nil {
		s.state = DefaultState()
		return verr
	}
	s.state = state
	return nil
}

// Save writes the current state to the save file, creating parent
// directories as needed. In dev mode it does nothing.
func (s *Store) Save() error {
	if s.devMode {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("progress: cannot encode save data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progress: cannot create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("progress: cannot write save file: %w", err)
	}
	return nil
}

// Unlocked returns the highest level the player may start.
func (s *Store) Unlocked() int {
	return s.state.UnlockedLevel
}

// Current returns the level the player last played or selected.
func (s *Store) Current() int {
	return s.state.CurrentLevel
}

// SetCurrent records the player's current level and persists it. Every
// level start passes through here, so quitting mid-run resumes at the level
// that was last on screen.
func (s *Store) SetCurrent(level int) error {
	if level < 1 {
		level = 1
	}
	if level > NumLevels {
		level = NumLevels
	}
	s.state.CurrentLevel = level
	return s.Save()
}

// AdvanceAfter updates progression after the given level was completed and
// persists the result. Unlocking never goes backward and never past the last
// level. Rank entries recorded during name entry land in the same write.
func (s *Store) AdvanceAfter(completed int) error {
	next := completed + 1
	if next > NumLevels {
		next = NumLevels
	}
	if next > s.state.UnlockedLevel {
		s.state.UnlockedLevel = next
	}
	s.state.CurrentLevel = next
	return s.Save()
}

// Leaderboard returns the live leaderboard for a level. Mutations through
// the returned pointer are picked up by the next save.
func (s *Store) Leaderboard(level int) (*rank.Leaderboard, error) {
	if level < 1 || level > NumLevels {
		return nil, fmt.Errorf("progress: level %d out of range 1..%d", level, NumLevels)
	}
	key := levelKey(level)
	lb := s.state.Leaderboard[key]
	if lb == nil {
		lb = &rank.Leaderboard{}
		s.state.Leaderboard[key] = lb
	}
	return lb, nil
}

// RecordRank inserts a finished attempt into one ranking table at the index
// computed when the level ended. expectedLen is the table length observed at
// that time; the insert is rejected if the table changed since. In dev mode
// nothing is recorded.
func (s *Store) RecordRank(level int, m rank.Metric, index int, e rank.Entry, expectedLen int) error {
	if s.devMode {
		return nil
	}
	lb, err := s.Leaderboard(level)
	if err != nil {
		return err
	}
	if err := lb.Table(m).InsertAt(index, e, expectedLen); err != nil {
		return fmt.Errorf("progress: record %s rank for level %d: %w", m, level, err)
	}
	return nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	return s.state.Settings
}

// UpdateSettings applies fn to the settings and persists immediately.
func (s *Store) UpdateSettings(fn func(*Settings)) error {
	fn(&s.state.Settings)
	return s.Save()
}

// EnterDevMode unlocks all levels for this process. The real unlocked level
// is remembered and restored on exit, and saves are suppressed meanwhile.
func (s *Store) EnterDevMode() {
	if s.devMode {
		return
	}
	s.savedUnlocked = s.state.UnlockedLevel
	s.state.UnlockedLevel = NumLevels
	s.devMode = true
}

// ExitDevMode restores the unlocked level that was in effect before dev mode.
// The current level is pulled back too if dev play left it past the unlock.
func (s *Store) ExitDevMode() {
	if !s.devMode {
		return
	}
	s.state.UnlockedLevel = s.savedUnlocked
	if s.state.CurrentLevel > s.savedUnlocked {
		s.state.CurrentLevel = s.savedUnlocked
	}
	s.devMode = false
}

// DevMode reports whether dev mode is active.
func (s *Store) DevMode() bool {
	return s.devMode
}
