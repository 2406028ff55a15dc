// Package history records run summaries in a local SQLite database so past
// runs can be listed from the CLI.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Summary is one recorded run.
type Summary struct {
	ID        int64
	Spec      string
	BaseURL   string
	StartedAt time.Time
	Duration  time.Duration
	Passed    int
	Failed    int
	Skipped   int
}

// Store persists run summaries.
type Store struct {
	db *sql.DB
}

// Open opens (and, if needed, initializes) the history database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			spec TEXT NOT NULL,
			base_url TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			skipped INTEGER NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one run summary and returns its assigned ID.
func (s *Store) Record(summary Summary) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO runs (spec, base_url, started_at, duration_ms, passed, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		summary.Spec,
		summary.BaseURL,
		summary.StartedAt.UnixMilli(),
		summary.Duration.Milliseconds(),
		summary.Passed,
		summary.Failed,
		summary.Skipped,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, spec, base_url, started_at, duration_ms, passed, failed, skipped
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []Summary
	for rows.Next() {
		var (
			summary    Summary
			startedMs  int64
			durationMs int64
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.Spec,
			&summary.BaseURL,
			&startedMs,
			&durationMs,
			&summary.Passed,
			&summary.Failed,
			&summary.Skipped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		summary.StartedAt = time.UnixMilli(startedMs)
		summary.Duration = time.Duration(durationMs) * time.Millisecond
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Clear deletes all recorded runs.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
