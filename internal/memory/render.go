package memory

import (
	"fmt"

	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/rank"
)

// lowTimeThreshold is the remaining-seconds mark at which the timer turns red.
const lowTimeThreshold = 10

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}
	snap := g.Snapshot()
	if snap.Phase == PhaseIdle {
		return
	}

	g.renderHUD(dst, snap)
	g.renderCards(dst, snap)
	g.renderFooter(dst, snap)

	// Draw overlays
	switch {
	case snap.Phase == PhaseFailed:
		g.renderOverlay(dst, "Time's up!", "Press R to retry, Esc for menu")
	case snap.Phase == PhaseLevelComplete:
		g.renderOverlay(dst,
			fmt.Sprintf("Level %d complete!", snap.Level),
			fmt.Sprintf("Time: %ds  Moves: %d", snap.TimeTaken, snap.Moves),
			"Press Enter for the next level")
	case snap.Phase == PhaseRunComplete:
		g.renderOverlay(dst,
			"All levels complete!",
			fmt.Sprintf("Time: %ds  Moves: %d", snap.TimeTaken, snap.Moves),
			"Press Enter for menu")
	case snap.Phase == PhaseNameEntry:
		lines := []string{"New record!"}
		for _, r := range snap.Ranks {
			lines = append(lines, rankLine(r))
		}
		g.renderOverlay(dst, lines...)
	case snap.Paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the level, move counter and timer above the board.
func (g *Game) renderHUD(dst *core.Screen, snap Snapshot) {
	hud := fmt.Sprintf(" Level %d/%d — Moves: %d", snap.Level, g.cfg.NumLevels(), snap.Moves)
	dst.DrawTextColored(0, 0, hud, g.opts.WordColor)

	if g.opts.TimerEnabled {
		timeStr := fmt.Sprintf("Time: %ds ", snap.Remaining)
		color := g.opts.WordColor
		if snap.Remaining <= lowTimeThreshold {
			color = core.ColorRed
		}
		dst.DrawTextColored(dst.Width()-len(timeStr), 0, timeStr, color)
	}

	// Separator between HUD and board
	sep := core.Max(1, g.projectY(dst, g.cfg.Layout.HeaderH)-1)
	dst.DrawHLine(0, sep, dst.Width(), '─', core.ColorGray)
}

// renderCards draws every visible card at its projected position. Sliding
// cards carry their animation offset in the snapshot rect already.
func (g *Game) renderCards(dst *core.Screen, snap Snapshot) {
	cursor := g.session.board.Index(g.cursorRow, g.cursorCol)
	for i, card := range snap.Cards {
		if !card.Visible {
			continue
		}
		hot := g.cursorOn && snap.Phase == PhasePlaying && i == cursor
		g.renderCard(dst, g.projectRect(dst, card.Rect), card, hot)
	}
}

// renderCard draws one card: a box, plus the symbol when it is showing.
func (g *Game) renderCard(dst *core.Screen, r core.Rect, card CardView, hot bool) {
	border := core.ColorCyan
	switch {
	case card.Matched:
		border = core.ColorGreen
	case card.FaceUp:
		border = core.ColorWhite
	}
	if hot {
		border = core.ColorYellow
	}
	dst.DrawBox(r, border)

	if !card.FaceUp && !card.Matched {
		return
	}
	runes := []rune(string(card.Value))
	if max := core.Max(1, r.W-2); len(runes) > max {
		runes = runes[:max]
	}
	x := r.X + (r.W-len(runes))/2
	dst.DrawTextColored(x, r.Y+r.H/2, string(runes), g.opts.WordColor)
}

// renderFooter draws the key hints, replaced by the celebration message
// while one is fading.
func (g *Game) renderFooter(dst *core.Screen, snap Snapshot) {
	if snap.Message != "" {
		color := core.ColorGreen
		if snap.MessageFade < 0.5 {
			color = core.ColorGray
		}
		dst.DrawTextCenteredColored(dst.Height()-1, snap.Message, color)
		return
	}
	if snap.Phase == PhasePlaying {
		dst.DrawTextCenteredColored(dst.Height()-1, "Space: Flip  |  P: Pause  |  Esc: Menu", core.ColorGray)
	}
}

// renderOverlay draws a centered box with one line of text per entry.
func (g *Game) renderOverlay(dst *core.Screen, lines ...string) {
	if len(lines) == 0 {
		return
	}
	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	boxW := core.Min(maxLen+4, dst.Width())
	boxH := 2*len(lines) + 1
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		dst.DrawTextCenteredColored(box.Y+1+2*i, line, core.ColorWhite)
	}
}

// rankLine formats a qualified rank for the name entry overlay.
func rankLine(r RankView) string {
	if r.Metric == rank.BestTime {
		return fmt.Sprintf("Best time: #%d (%ds)", r.Index+1, r.Score)
	}
	return fmt.Sprintf("Fewest moves: #%d (%d)", r.Index+1, r.Score)
}

// projectX maps a virtual x-coordinate to a screen column.
func (g *Game) projectX(dst *core.Screen, x int) int {
	return x * dst.Width() / g.cfg.Layout.VirtualW
}

// projectY maps a virtual y-coordinate to a screen row.
func (g *Game) projectY(dst *core.Screen, y int) int {
	return y * dst.Height() / g.cfg.Layout.VirtualH
}

// projectRect maps a virtual rectangle to screen cells, keeping at least one
// cell in each dimension so small cards remain visible.
func (g *Game) projectRect(dst *core.Screen, r core.Rect) core.Rect {
	x1 := g.projectX(dst, r.X)
	y1 := g.projectY(dst, r.Y)
	x2 := g.projectX(dst, r.Right())
	y2 := g.projectY(dst, r.Bottom())
	return core.NewRect(x1, y1, core.Max(1, x2-x1), core.Max(1, y2-y1))
}
