package config

import (
	_ "embed"
)

//go:embed defaults/pairgrid.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in gameplay configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Levels: []LevelSpec{
			{Rows: 2, Cols: 2, TimeLimit: 60},
			{Rows: 2, Cols: 4, TimeLimit: 75},
			{Rows: 3, Cols: 4, TimeLimit: 90},
			{Rows: 4, Cols: 4, TimeLimit: 90},
			{Rows: 4, Cols: 5, TimeLimit: 90},
			{Rows: 4, Cols: 6, TimeLimit: 100},
			{Rows: 5, Cols: 6, TimeLimit: 110},
			{Rows: 6, Cols: 6, TimeLimit: 120},
			{Rows: 6, Cols: 7, TimeLimit: 135},
			{Rows: 8, Cols: 8, TimeLimit: 180},
		},
		Rules: RulesConfig{
			FlipDelayMS:   600,
			MessageFadeMS: 1000,
			SlideSpeed:    900, // 15 px per tick at 60 fps
		},
		Layout: LayoutConfig{
			VirtualW: 800,
			VirtualH: 600,
			HeaderH:  50,
			FooterH:  50,
			Inset:    5,
		},
		Celebrations: []string{
			"Great!",
			"Nice!",
			"Well done!",
			"Awesome!",
			"Good job!",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultGameYAML
}
