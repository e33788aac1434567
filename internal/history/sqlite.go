// Package history provides SQLite-based persistence for level attempts.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// History is a log, not the progression state: the save file owns unlocks
// and leaderboards, this database remembers every attempt so the stats
// screen can aggregate them.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Attempt outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// Store manages the SQLite database connection for attempt history.
type Store struct {
	db *sql.DB
}

// Attempt is a single recorded level attempt.
type Attempt struct {
	ID        int64
	Level     int
	Outcome   string
	TimeTaken int // seconds, 0 for abandoned attempts
	Moves     int
	CreatedAt time.Time
}

// LevelStats contains aggregated attempt statistics for one level.
type LevelStats struct {
	Level       int
	Attempts    int
	Completions int
	BestTime    int // fastest completion in seconds, 0 when never completed
	FewestMoves int // 0 when never completed
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("history: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			time_taken INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(level);
		CREATE INDEX IF NOT EXISTS idx_attempts_recent ON attempts(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAttempt records a finished attempt for the given level.
// Returns the ID of the inserted record.
func (s *Store) SaveAttempt(level int, outcome string, timeTaken, moves int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO attempts (level, outcome, time_taken, moves) VALUES (?, ?, ?, ?)",
		level, outcome, timeTaken, moves,
	)
	if err != nil {
		return 0, fmt.Errorf("history: cannot save attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentAttempts retrieves the most recent attempts across all levels.
func (s *Store) RecentAttempts(limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, time_taken, moves, created_at
		 FROM attempts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var createdAt any
		if err := rows.Scan(&a.ID, &a.Level, &a.Outcome, &a.TimeTaken, &a.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("history: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			a.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				a.CreatedAt = parsed
			}
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}

	return attempts, nil
}

// LevelAttempts retrieves the most recent attempts for a single level.
func (s *Store) LevelAttempts(level, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, time_taken, moves, created_at
		 FROM attempts
		 WHERE level = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var createdAt any
		if err := rows.Scan(&a.ID, &a.Level, &a.Outcome, &a.TimeTaken, &a.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("history: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			a.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				a.CreatedAt = parsed
			}
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}

	return attempts, nil
}

// Stats retrieves aggregated statistics for one level.
// Best time and fewest moves only consider completed attempts.
func (s *Store) Stats(level int) (*LevelStats, error) {
	stats := &LevelStats{Level: level}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN time_taken END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN moves END), 0)
		 FROM attempts WHERE level = ?`,
		OutcomeCompleted, OutcomeCompleted, OutcomeCompleted, level,
	).Scan(&stats.Attempts, &stats.Completions, &stats.BestTime, &stats.FewestMoves)
	if err != nil {
		return nil, fmt.Errorf("history: cannot get level stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM attempts WHERE level = ? ORDER BY created_at DESC LIMIT 1`,
		level,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("history: cannot get last played: %w", err)
	}
	if err == nil {
		switch v := lastPlayed.(type) {
		case time.Time:
			stats.LastPlayed = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				stats.LastPlayed = parsed
			}
		}
	}

	return stats, nil
}

// AllStats retrieves statistics for every level that has attempts,
// ordered by level.
func (s *Store) AllStats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN time_taken END), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN moves END), 0),
		        MAX(created_at)
		 FROM attempts
		 GROUP BY level
		 ORDER BY level`,
		OutcomeCompleted, OutcomeCompleted, OutcomeCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("history: cannot get all stats: %w", err)
	}
	defer rows.Close()

	var all []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.Level, &st.Attempts, &st.Completions, &st.BestTime, &st.FewestMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("history: cannot scan stats row: %w", err)
		}

		switch v := lastPlayed.(type) {
		case time.Time:
			st.LastPlayed = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				st.LastPlayed = parsed
			}
		}

		all = append(all, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: row iteration error: %w", err)
	}

	return all, nil
}

// Clear deletes the whole attempt log.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM attempts")
	if err != nil {
		return fmt.Errorf("history: cannot clear attempts: %w", err)
	}
	return nil
}
