// Package config provides YAML-based gameplay configuration loading.
package config

import (
	"fmt"
	"time"
)

// GameConfig contains the full gameplay configuration: the level ladder,
// match-resolution rules, board geometry, and celebration messages.
type GameConfig struct {
	Levels       []LevelSpec  `yaml:"levels"`
	Rules        RulesConfig  `yaml:"rules"`
	Layout       LayoutConfig `yaml:"layout"`
	Celebrations []string     `yaml:"celebrations"`
}

// LevelSpec defines one level: its card grid and time limit.
type LevelSpec struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	TimeLimit int `yaml:"time_limit"` // seconds
}

// Pairs returns the number of card pairs on the level's board.
func (s LevelSpec) Pairs() int {
	return s.Rows * s.Cols / 2
}

// RulesConfig defines match-resolution timing and animation speed.
type RulesConfig struct {
	FlipDelayMS   int `yaml:"flip_delay_ms"`   // mismatched pair stays face up this long
	MessageFadeMS int `yaml:"message_fade_ms"` // celebration message lifetime
	SlideSpeed    int `yaml:"slide_speed"`     // matched-pair slide, virtual pixels per second
}

// FlipDelay returns the resolve delay as a duration.
func (r RulesConfig) FlipDelay() time.Duration {
	return time.Duration(r.FlipDelayMS) * time.Millisecond
}

// MessageFade returns the celebration lifetime as a duration.
func (r RulesConfig) MessageFade() time.Duration {
	return time.Duration(r.MessageFadeMS) * time.Millisecond
}

// LayoutConfig defines the virtual board geometry. Gameplay runs in a fixed
// virtual pixel space; the platform layer projects it onto the terminal.
type LayoutConfig struct {
	VirtualW int `yaml:"virtual_width"`
	VirtualH int `yaml:"virtual_height"`
	HeaderH  int `yaml:"header_height"`
	FooterH  int `yaml:"footer_height"`
	Inset    int `yaml:"inset"` // gap between a cell and its card rectangle
}

// BoardH returns the height of the card area between header and footer.
func (l LayoutConfig) BoardH() int {
	return l.VirtualH - l.HeaderH - l.FooterH
}

// NumLevels returns the number of configured levels.
func (c GameConfig) NumLevels() int {
	return len(c.Levels)
}

// Level returns the LevelSpec for a 1-based level number.
func (c GameConfig) Level(n int) (LevelSpec, error) {
	if n < 1 || n > len(c.Levels) {
		return LevelSpec{}, fmt.Errorf("config: level %d out of range 1..%d", n, len(c.Levels))
	}
	return c.Levels[n-1], nil
}

// Validate checks that the configuration is playable.
func (c GameConfig) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("config: no levels defined")
	}
	for i, l := range c.Levels {
		if l.Rows < 1 || l.Cols < 1 {
			return fmt.Errorf("config: level %d has empty grid %dx%d", i+1, l.Rows, l.Cols)
		}
		if (l.Rows*l.Cols)%2 != 0 {
			return fmt.Errorf("config: level %d grid %dx%d has an odd cell count", i+1, l.Rows, l.Cols)
		}
		if l.TimeLimit < 1 {
			return fmt.Errorf("config: level %d has no time limit", i+1)
		}
	}
	if c.Rules.FlipDelayMS < 0 || c.Rules.MessageFadeMS < 0 {
		return fmt.Errorf("config: rule delays cannot be negative")
	}
	if c.Rules.SlideSpeed < 1 {
		return fmt.Errorf("config: slide speed must be positive")
	}
	if c.Layout.VirtualW < 1 || c.Layout.BoardH() < 1 {
		return fmt.Errorf("config: layout leaves no room for the board")
	}
	if len(c.Celebrations) == 0 {
		return fmt.Errorf("config: no celebration messages defined")
	}
	return nil
}
