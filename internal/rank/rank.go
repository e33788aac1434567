// Package rank implements the bounded, ordered leaderboard tables.
// Each table holds up to MaxRanks (name, score) entries sorted ascending by
// score; lower is better for both tracked metrics (time and moves).
package rank

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	// MaxRanks is the capacity of a leaderboard table.
	MaxRanks = 10

	// MaxNameLen is the maximum length of a leaderboard name.
	MaxNameLen = 12
)

// ErrTableChanged is returned by InsertAt when the table no longer matches
// the shape it had when the rank was computed. The insert is a no-op.
var ErrTableChanged = errors.New("rank: table changed between rank query and insert")

// Entry is a single leaderboard record.
// It marshals to the two-element JSON array form ["name", score] used by the
// save file.
type Entry struct {
	Name  string
	Score int
}

// MarshalJSON encodes the entry as ["name", score].
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.Score})
}

// UnmarshalJSON decodes the ["name", score] pair form.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("rank: malformed entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("rank: entry must be a [name, score] pair, got %d elements", len(pair))
	}
	name, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("rank: entry name must be a string, got %T", pair[0])
	}
	score, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("rank: entry score must be a number, got %T", pair[1])
	}
	e.Name = name
	e.Score = int(score)
	return nil
}

// Table is an ascending-ordered leaderboard with capacity MaxRanks.
type Table []Entry

// RankFor returns the zero-based position where score would be inserted to
// keep the table ascending: the index of the first entry with a strictly
// greater score, so a new score ties after existing equal entries. When no
// entry is strictly greater, the next free index is returned while the table
// has room. The second return is false when the table is full and the score
// does not beat the worst entry (not a leaderboard-qualifying score).
func (t Table) RankFor(score int) (int, bool) {
	for i, e := range t {
		if e.Score > score {
			return i, true
		}
	}
	if len(t) < MaxRanks {
		return len(t), true
	}
	return 0, false
}

// InsertAt inserts entry at index, truncating the table to MaxRanks.
//
// index must come from a RankFor call against the same table, and
// expectedLen must be the table's length at that time. If the table changed
// shape in between, or index no longer preserves ascending order, the insert
// is rejected with ErrTableChanged and the table is left untouched.
func (t *Table) InsertAt(index int, entry Entry, expectedLen int) error {
	if len(*t) != expectedLen {
		return ErrTableChanged
	}
	if index < 0 || index > len(*t) {
		return ErrTableChanged
	}
	// The rank contract: everything before index ties or beats the score,
	// the entry at index (if any) is strictly worse.
	if index > 0 && (*t)[index-1].Score > entry.Score {
		return ErrTableChanged
	}
	if index < len(*t) && (*t)[index].Score <= entry.Score {
		return ErrTableChanged
	}

	*t = append(*t, Entry{})
	copy((*t)[index+1:], (*t)[index:])
	(*t)[index] = entry

	if len(*t) > MaxRanks {
		*t = (*t)[:MaxRanks]
	}
	return nil
}

// Normalize restores the table invariants after an untrusted load:
// ascending order (stable, so ties keep arrival order) and capacity MaxRanks.
func (t *Table) Normalize() {
	sort.SliceStable(*t, func(i, j int) bool {
		return (*t)[i].Score < (*t)[j].Score
	})
	if len(*t) > MaxRanks {
		*t = (*t)[:MaxRanks]
	}
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Metric selects which per-level table a score belongs to.
type Metric int

const (
	// BestTime ranks attempts by seconds taken, fewer is better.
	BestTime Metric = iota
	// LeastMoves ranks attempts by moves used, fewer is better.
	LeastMoves
)

// String returns the metric's save-file key.
func (m Metric) String() string {
	if m == LeastMoves {
		return "least_moves"
	}
	return "best_time"
}

// Leaderboard groups the two per-level tables.
type Leaderboard struct {
	BestTime   Table `json:"best_time"`
	LeastMoves Table `json:"least_moves"`
}

// Table returns the table for the given metric.
func (l *Leaderboard) Table(m Metric) *Table {
	if m == LeastMoves {
		return &l.LeastMoves
	}
	return &l.BestTime
}

// Normalize restores invariants on both tables.
func (l *Leaderboard) Normalize() {
	l.BestTime.Normalize()
	l.LeastMoves.Normalize()
}

// SanitizeName trims a submitted name to the leaderboard rules: printable
// characters only, at most MaxNameLen runes, surrounding whitespace removed.
func SanitizeName(raw string) string {
	var b strings.Builder
	count := 0
	for _, r := range strings.TrimSpace(raw) {
		if !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if count == MaxNameLen {
			break
		}
	}
	return b.String()
}
