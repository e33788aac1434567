package core

import "strings"

// Color represents a foreground color for a screen cell.
// The platform maps these to ANSI codes for terminal display.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// colorNames maps the human-readable color names used in player settings
// (background, word_color) to screen colors.
var colorNames = map[string]Color{
	"white":   ColorWhite,
	"red":     ColorRed,
	"green":   ColorGreen,
	"yellow":  ColorYellow,
	"blue":    ColorBlue,
	"magenta": ColorMagenta,
	"purple":  ColorMagenta,
	"cyan":    ColorCyan,
	"orange":  ColorOrange,
	"gray":    ColorGray,
	"grey":    ColorGray,
	"black":   ColorDefault,
}

// ColorByName returns the color for a settings color name (case-insensitive).
// Unknown names map to ColorDefault.
func ColorByName(name string) Color {
	if c, ok := colorNames[strings.ToLower(name)]; ok {
		return c
	}
	return ColorDefault
}

// ColorNames returns the canonical settings color names, in cycle order.
func ColorNames() []string {
	return []string{"White", "Red", "Green", "Yellow", "Blue", "Magenta", "Cyan", "Orange", "Gray"}
}
