package core

import (
	"strings"
	"testing"
)

func TestNewScreenStartsBlank(t *testing.T) {
	s := NewScreen(40, 12)

	if s.Width() != 40 || s.Height() != 12 {
		t.Fatalf("dimensions = %dx%d, expected 40x12", s.Width(), s.Height())
	}

	blank := strings.Repeat(" ", 40)
	for y := 0; y < s.Height(); y++ {
		if s.Row(y) != blank {
			t.Errorf("row %d not blank: %q", y, s.Row(y))
		}
	}
}

func TestScreenSetAndGet(t *testing.T) {
	s := NewScreen(10, 6)

	tests := []struct {
		name      string
		x, y      int
		r         rune
		c         Color
		wantRune  rune
		wantColor Color
	}{
		{"plain set", 4, 2, '?', ColorDefault, '?', ColorDefault},
		{"colored set", 7, 5, '♥', ColorBrightRed, '♥', ColorBrightRed},
		{"left of screen", -1, 0, 'X', ColorRed, ' ', ColorDefault},
		{"right of screen", 10, 0, 'X', ColorRed, ' ', ColorDefault},
		{"above screen", 0, -1, 'X', ColorRed, ' ', ColorDefault},
		{"below screen", 0, 6, 'X', ColorRed, ' ', ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetColored(tt.x, tt.y, tt.r, tt.c)
			cell := s.GetCell(tt.x, tt.y)
			if cell.Rune != tt.wantRune || cell.Color != tt.wantColor {
				t.Errorf("GetCell(%d, %d) = %+v, expected %q in color %d",
					tt.x, tt.y, cell, tt.wantRune, tt.wantColor)
			}
		})
	}

	if s.Get(4, 2) != '?' {
		t.Errorf("Get(4, 2) = %q after SetColored", s.Get(4, 2))
	}
}

func TestScreenClearResetsCells(t *testing.T) {
	s := NewScreen(8, 4)
	s.DrawRect(NewRect(0, 0, 8, 4), '#', ColorCyan)
	s.Clear()

	blank := strings.Repeat(" ", 8)
	for y := 0; y < 4; y++ {
		if s.Row(y) != blank {
			t.Fatalf("row %d after Clear: %q", y, s.Row(y))
		}
	}
	if s.GetCell(3, 1).Color != ColorDefault {
		t.Error("Clear should reset colors to the default")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 4)

	s.DrawText(2, 1, "PAIRS 3/8")
	if got := strings.TrimRight(s.Row(1), " "); got != "  PAIRS 3/8" {
		t.Errorf("row 1 = %q", got)
	}

	// Clipped at the right edge.
	s.DrawText(17, 2, "MOVES")
	if got := s.Row(2)[17:]; got != "MOV" {
		t.Errorf("clipped text = %q, expected %q", got, "MOV")
	}

	s.DrawTextColored(0, 3, "0:42", ColorBrightYellow)
	for i := range 4 {
		if s.GetCell(i, 3).Color != ColorBrightYellow {
			t.Errorf("cell %d of colored text has color %d", i, s.GetCell(i, 3).Color)
		}
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		wantX int
	}{
		{"even width even text", 20, "LEVEL CLEAR!", 4},
		{"odd remainder rounds left", 21, "TIME UP!", 6},
		{"full width", 6, "RESULT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(tt.width, 3)
			s.DrawTextCentered(1, tt.text)
			for i, r := range tt.text {
				if got := s.Get(tt.wantX+i, 1); got != r {
					t.Fatalf("expected %q at x=%d, got %q", r, tt.wantX+i, got)
				}
			}
		})
	}

	s := NewScreen(15, 3)
	s.DrawTextCenteredColored(0, "WIN", ColorBrightGreen)
	if s.GetCell(6, 0).Color != ColorBrightGreen {
		t.Error("centered colored text should keep its color")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(12, 6)
	s.DrawRect(NewRect(3, 1, 4, 3), '█', ColorBlue)

	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			cell := s.GetCell(x, y)
			inside := x >= 3 && x < 7 && y >= 1 && y < 4
			if inside && (cell.Rune != '█' || cell.Color != ColorBlue) {
				t.Fatalf("inside cell (%d, %d) = %+v", x, y, cell)
			}
			if !inside && cell.Rune != ' ' {
				t.Fatalf("outside cell (%d, %d) = %+v", x, y, cell)
			}
		}
	}

	// A rect hanging off the edge only paints the visible part.
	s.Clear()
	s.DrawRect(NewRect(10, 4, 5, 5), '#', ColorDefault)
	if s.Row(4)[10:] != "##" {
		t.Errorf("partially visible rect row = %q", s.Row(4))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(7, 4)
	s.DrawBox(NewRect(1, 0, 5, 4), ColorDefault)

	want := []string{
		" ┌───┐ ",
		" │   │ ",
		" │   │ ",
		" └───┘ ",
	}
	for y, row := range want {
		if s.Row(y) != row {
			t.Errorf("row %d = %q, expected %q", y, s.Row(y), row)
		}
	}
}

func TestScreenDrawLines(t *testing.T) {
	s := NewScreen(9, 5)
	s.DrawHLine(1, 2, 7, '─', ColorGray)
	s.DrawVLine(4, 0, 5, '│', ColorGray)

	if got := s.Row(2); got != " ───│─── " {
		t.Errorf("crossing row = %q", got)
	}
	for y := 0; y < 5; y++ {
		if y == 2 {
			continue
		}
		if s.Get(4, y) != '│' {
			t.Errorf("vertical line missing at y=%d", y)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "? ? ")
	s.DrawText(0, 1, " ? ?")

	if got := s.String(); got != "? ? \n ? ?" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(6, 3)
	s.DrawText(1, 1, "card")

	if got := s.Row(1); got != " card " {
		t.Errorf("Row(1) = %q", got)
	}
	for _, y := range []int{-1, 3} {
		if got := s.Row(y); got != "      " {
			t.Errorf("Row(%d) = %q, expected blanks", y, got)
		}
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(12, 6)
	s.DrawText(0, 0, "TOP LEFT")
	s.DrawText(0, 5, "BOTTOM")

	s.Resize(8, 3)
	if s.Width() != 8 || s.Height() != 3 {
		t.Fatalf("after shrink: %dx%d", s.Width(), s.Height())
	}
	if got := s.Row(0); got != "TOP LEFT" {
		t.Errorf("shrink should keep the top-left corner, row 0 = %q", got)
	}

	s.Resize(14, 5)
	if got := strings.TrimRight(s.Row(0), " "); got != "TOP LEFT" {
		t.Errorf("grow should keep prior content, row 0 = %q", got)
	}
	if got := s.Row(4); got != strings.Repeat(" ", 14) {
		t.Errorf("new rows should start blank, row 4 = %q", got)
	}

	// Same dimensions is a no-op, content untouched.
	s.Resize(14, 5)
	if got := strings.TrimRight(s.Row(0), " "); got != "TOP LEFT" {
		t.Errorf("no-op resize lost content, row 0 = %q", got)
	}
}
