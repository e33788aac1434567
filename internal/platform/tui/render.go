package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pairgrid/pairgrid/internal/core"
)

// ansiPalette is indexed by core.Color, so the order must match the
// color constants in internal/core. An empty entry renders unstyled.
var ansiPalette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var colorStyles = buildStyles()

func buildStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(ansiPalette))
	for c, code := range ansiPalette {
		if code == "" {
			styles[c] = lipgloss.NewStyle()
			continue
		}
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if int(c) >= len(colorStyles) {
		return colorStyles[core.ColorDefault]
	}
	return colorStyles[c]
}

// RenderScreen flattens a screen buffer into a styled string. Cells are
// emitted in same-color runs so a frame full of card glyphs does not pay
// one escape sequence per cell.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	row := make([]rune, 0, s.Width())
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			cell := s.GetCell(x, y)
			color := cell.Color
			row = row[:0]
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				row = append(row, cell.Rune)
				x++
			}
			if color == core.ColorDefault {
				sb.WriteString(string(row))
				continue
			}
			sb.WriteString(styleFor(color).Render(string(row)))
		}
	}
	return sb.String()
}
