// Package memory implements the tile-matching gameplay: the card board,
// match resolution, the level session state machine, and the platform-facing
// Game wrapper. All geometry lives in the virtual pixel space from
// core.RuntimeConfig; nothing here knows about terminals.
package memory

import (
	"math/rand"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/core"
)

// Symbol is one card face from a theme alphabet.
type Symbol string

// Card is a single tile. FaceUp and Matched are the gameplay state; slide
// offsets and visibility are presentation state owned by the slider.
type Card struct {
	Value   Symbol
	Rect    core.Rect // fixed position in virtual pixels
	FaceUp  bool
	Matched bool
}

// Board is the card grid for one level attempt. It is rebuilt wholesale on
// every level start; nothing outside the session holds references into it.
type Board struct {
	Rows, Cols int
	Cards      []Card // row-major, index = row*Cols + col
}

// BuildBoard creates a shuffled board for the given level.
//
// Symbol selection walks a shuffled copy of the alphabet, cycling when the
// level needs more pairs than the alphabet has symbols. Each selected symbol
// is duplicated into a pair and the full multiset is shuffled before being
// assigned left-to-right, top-to-bottom.
func BuildBoard(spec config.LevelSpec, layout config.LayoutConfig, alphabet []string, rng *rand.Rand) Board {
	pairs := spec.Pairs()

	pool := make([]Symbol, len(alphabet))
	for i, s := range alphabet {
		pool[i] = Symbol(s)
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	values := make([]Symbol, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		sym := pool[i%len(pool)]
		values = append(values, sym, sym)
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	// Cell geometry: the grid fills the area between header and footer, each
	// card inset inside its cell. Fixed for the whole attempt.
	cellW := layout.VirtualW / spec.Cols
	cellH := layout.BoardH() / spec.Rows

	b := Board{
		Rows:  spec.Rows,
		Cols:  spec.Cols,
		Cards: make([]Card, 0, pairs*2),
	}
	for i, v := range values {
		row := i / spec.Cols
		col := i % spec.Cols
		b.Cards = append(b.Cards, Card{
			Value: v,
			Rect: core.NewRect(
				col*cellW+layout.Inset,
				layout.HeaderH+row*cellH+layout.Inset,
				cellW-2*layout.Inset,
				cellH-2*layout.Inset,
			),
		})
	}
	return b
}

// Index converts grid coordinates to a card index.
func (b *Board) Index(row, col int) int {
	return row*b.Cols + col
}

// HitTest returns the index of the hidden card containing p. Face-up and
// matched cards do not take clicks.
func (b *Board) HitTest(p core.Point) (int, bool) {
	for i := range b.Cards {
		c := &b.Cards[i]
		if c.Matched || c.FaceUp {
			continue
		}
		if c.Rect.ContainsPoint(p) {
			return i, true
		}
	}
	return -1, false
}

// AllMatched reports level completion. It checks matched, not visibility, so
// cards still sliding off-screen count.
func (b *Board) AllMatched() bool {
	for i := range b.Cards {
		if !b.Cards[i].Matched {
			return false
		}
	}
	return len(b.Cards) > 0
}

// MatchedCount returns the number of matched cards.
func (b *Board) MatchedCount() int {
	n := 0
	for i := range b.Cards {
		if b.Cards[i].Matched {
			n++
		}
	}
	return n
}
