package progress

import (
	"encoding/json"
	"fmt"

	"github.com/pairgrid/pairgrid/internal/rank"
	"github.com/pairgrid/pairgrid/internal/themes"
)

// SchemaError reports a save document that could not be accepted.
// The loader substitutes defaults when it sees one; the error is surfaced so
// the caller can log that saved progress was discarded.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("progress: invalid save data at %s: %s", e.Field, e.Reason)
}

// rawSave mirrors SaveState with deferred decoding, so one malformed
// leaderboard or settings block degrades to defaults instead of discarding
// the whole document.
type rawSave struct {
	Version       *int                       `json:"version"`
	UnlockedLevel *int                       `json:"unlocked_level"`
	CurrentLevel  *int                       `json:"current_level"`
	Leaderboard   map[string]json.RawMessage `json:"leaderboard"`
	Settings      json.RawMessage            `json:"settings"`
}

// Validate parses, migrates, and normalizes a save document.
//
// Unparseable JSON and versions newer than CurrentVersion are rejected with
// a *SchemaError. Inside an accepted document the normalization rules of the
// save contract apply: out-of-range level numbers clamp, missing level keys
// are created, tables that are not proper entry sequences coerce to empty,
// oversized tables truncate to capacity, and order is restored.
func Validate(data []byte) (*SaveState, error) {
	var raw rawSave
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Field: "document", Reason: err.Error()}
	}

	version := 0
	if raw.Version != nil {
		version = *raw.Version
	}
	if version > CurrentVersion {
		return nil, &SchemaError{
			Field:  "version",
			Reason: fmt.Sprintf("version %d is newer than supported %d", version, CurrentVersion),
		}
	}
	// Version 0 saves predate the version field but share the same shape,
	// so migration is just stamping the current version after normalizing.

	state := &SaveState{
		Version:       CurrentVersion,
		UnlockedLevel: clampLevel(raw.UnlockedLevel),
		CurrentLevel:  clampLevel(raw.CurrentLevel),
		Leaderboard:   make(map[string]*rank.Leaderboard, NumLevels),
		Settings:      decodeSettings(raw.Settings),
	}

	for lvl := 1; lvl <= NumLevels; lvl++ {
		key := levelKey(lvl)
		state.Leaderboard[key] = decodeLeaderboard(raw.Leaderboard[key])
	}

	return state, nil
}

// clampLevel coerces a level pointer into 1..NumLevels, defaulting to 1.
func clampLevel(p *int) int {
	if p == nil {
		return 1
	}
	if *p < 1 {
		return 1
	}
	if *p > NumLevels {
		return NumLevels
	}
	return *p
}

// rawLeaderboard defers table decoding so each metric coerces independently.
type rawLeaderboard struct {
	BestTime   json.RawMessage `json:"best_time"`
	LeastMoves json.RawMessage `json:"least_moves"`
}

func decodeLeaderboard(data json.RawMessage) *rank.Leaderboard {
	lb := &rank.Leaderboard{}
	if len(data) == 0 {
		return lb
	}

	var raw rawLeaderboard
	if err := json.Unmarshal(data, &raw); err != nil {
		return lb
	}
	lb.BestTime = decodeTable(raw.BestTime)
	lb.LeastMoves = decodeTable(raw.LeastMoves)
	return lb
}

// decodeTable coerces anything that is not a proper entry sequence to an
// empty table, then restores order and capacity.
func decodeTable(data json.RawMessage) rank.Table {
	if len(data) == 0 {
		return rank.Table{}
	}
	var t rank.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return rank.Table{}
	}
	t.Normalize()
	return t
}

// decodeSettings overlays the saved settings onto the defaults, so missing
// fields keep their default values. An unknown theme falls back to the
// default theme; color names are resolved leniently at render time instead.
func decodeSettings(data json.RawMessage) Settings {
	s := DefaultSettings()
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings()
	}
	if !themes.Exists(s.Theme) {
		s.Theme = themes.DefaultID
	}
	if !validBgStyle(s.BgStyle) {
		s.BgStyle = DefaultSettings().BgStyle
	}
	s.MusicVolume = clampVolume(s.MusicVolume)
	s.SfxVolume = clampVolume(s.SfxVolume)
	return s
}

func validBgStyle(style string) bool {
	for _, s := range BackgroundStyles() {
		if s == style {
			return true
		}
	}
	return false
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
