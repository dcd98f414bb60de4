// Package history persists a log of executed calls to a SQLite database,
// one row per call, for inspection after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          TEXT PRIMARY KEY,
	recorded_at TIMESTAMP NOT NULL,
	contract    TEXT NOT NULL,
	operation   TEXT NOT NULL,
	verb        TEXT NOT NULL,
	url         TEXT NOT NULL,
	status      INTEGER,
	outcome     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calls_recorded_at ON calls(recorded_at);
`

// Entry is one executed call
type Entry struct {
	ID         string
	RecordedAt time.Time
	Contract   string
	Operation  string
	Verb       string
	URL        string
	// Status is zero when the call produced no response
	Status int
	// Outcome is "response" for any completed exchange (including the
	// synthetic 500) or "cancelled" when the call was interrupted
	Outcome    string
	DurationMs int64
}

// Store is a SQLite-backed call log
type Store struct {
	db *sql.DB
}

// Open opens or creates the call log at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one call. A fresh id is assigned when the entry has none.
func (s *Store) Record(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO calls (id, recorded_at, contract, operation, verb, url, status, outcome, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RecordedAt, entry.Contract, entry.Operation,
		entry.Verb, entry.URL, entry.Status, entry.Outcome, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

// Recent returns the latest calls, newest first
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, recorded_at, contract, operation, verb, url, status, outcome, duration_ms
		 FROM calls ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RecordedAt, &e.Contract, &e.Operation,
			&e.Verb, &e.URL, &e.Status, &e.Outcome, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration error: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
