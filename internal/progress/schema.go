// Package progress owns the persisted player state: unlocked level, current
// level, per-level leaderboards, and settings. The save file is a single
// JSON document rewritten in full after every mutating event.
package progress

import (
	"strconv"

	"github.com/pairgrid/pairgrid/internal/rank"
)

const (
	// NumLevels is the number of levels the save schema tracks.
	NumLevels = 10

	// CurrentVersion is the save schema version this build reads and writes.
	// Version 0 (no version field) is the pre-versioning shape and loads as 1.
	CurrentVersion = 1

	// DevCode unlocks dev mode from the keypad screen. A debug backdoor for
	// testing later levels, not a security boundary.
	DevCode = "12345"
)

// Settings holds player preferences. Volume, fullscreen, and background
// style are carried for save compatibility even where the terminal build
// has no use for them.
type Settings struct {
	MusicVolume  float64 `json:"music_volume"`
	SfxVolume    float64 `json:"sfx_volume"`
	Theme        string  `json:"theme"`
	Background   string  `json:"background"`
	WordColor    string  `json:"word_color"`
	TimerEnabled bool    `json:"timer_enabled"`
	Fullscreen   bool    `json:"fullscreen"`
	BgStyle      string  `json:"bg_style"`
}

// DefaultSettings returns the settings used for a fresh save.
func DefaultSettings() Settings {
	return Settings{
		MusicVolume:  0.5,
		SfxVolume:    0.5,
		Theme:        "Numbers",
		Background:   "Blue",
		WordColor:    "White",
		TimerEnabled: true,
		Fullscreen:   false,
		BgStyle:      "Stars",
	}
}

// BackgroundStyles returns the background style cycle offered in settings.
func BackgroundStyles() []string {
	return []string{"Stars", "Grid", "Dots", "Stripes", "Solid"}
}

// SaveState is the full persisted document.
// Leaderboard keys are the level numbers "1".."10" as strings, matching the
// on-disk format.
type SaveState struct {
	Version       int                          `json:"version"`
	UnlockedLevel int                          `json:"unlocked_level"`
	CurrentLevel  int                          `json:"current_level"`
	Leaderboard   map[string]*rank.Leaderboard `json:"leaderboard"`
	Settings      Settings                     `json:"settings"`
}

// DefaultState returns a fresh save: level 1 unlocked, every leaderboard
// seeded with three placeholder entries so the tables are never empty.
func DefaultState() *SaveState {
	s := &SaveState{
		Version:       CurrentVersion,
		UnlockedLevel: 1,
		CurrentLevel:  1,
		Leaderboard:   make(map[string]*rank.Leaderboard, NumLevels),
		Settings:      DefaultSettings(),
	}
	for lvl := 1; lvl <= NumLevels; lvl++ {
		s.Leaderboard[levelKey(lvl)] = seededLeaderboard()
	}
	return s
}

// levelKey converts a level number to its save-file map key.
func levelKey(level int) string {
	return strconv.Itoa(level)
}

// seededLeaderboard returns the placeholder entries shipped with a new save.
func seededLeaderboard() *rank.Leaderboard {
	return &rank.Leaderboard{
		BestTime: rank.Table{
			{Name: "AAA", Score: 30},
			{Name: "BBB", Score: 35},
			{Name: "CCC", Score: 40},
		},
		LeastMoves: rank.Table{
			{Name: "AAA", Score: 4},
			{Name: "BBB", Score: 5},
			{Name: "CCC", Score: 6},
		},
	}
}
