// Package history provides SQLite-backed storage for benchmark timings.
//
// Each bench invocation appends one row per test case with its timing
// statistics, keyed by a time-sortable UUIDv7 run id. The database is a
// single-writer ledger: the bench command writes after all iterations have
// completed, so no locking discipline beyond SQLite's own is needed.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the SQLite database holding benchmark history.
type Store struct {
	db *sql.DB
}

// Record is one persisted benchmark measurement for a test case.
type Record struct {
	ID         string
	RecordedAt string
	Category   string
	Name       string
	Iterations int
	MeanMS     float64
	StddevMS   float64
	MinMS      float64
	MaxMS      float64
}

// Open creates or opens the history database at path and applies the schema.
//
// SQLite supports one writer at a time, so the pool is pinned to a single
// connection; WAL mode keeps reads concurrent with writes and the busy
// timeout absorbs short lock contention. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert appends one benchmark record. A missing ID gets a fresh UUIDv7 and
// a missing timestamp gets the current UTC time.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.RecordedAt == "" {
		rec.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bench_runs (id, recorded_at, category, name, iterations, mean_ms, stddev_ms, min_ms, max_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RecordedAt, rec.Category, rec.Name, rec.Iterations,
		rec.MeanMS, rec.StddevMS, rec.MinMS, rec.MaxMS,
	)
	if err != nil {
		return fmt.Errorf("insert bench record: %w", err)
	}
	return nil
}

// History returns up to limit records for one test identity, newest first.
// Rows tie-broken by id for deterministic ordering within one timestamp.
func (s *Store) History(ctx context.Context, category, name string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, category, name, iterations, mean_ms, stddev_ms, min_ms, max_ms
		FROM bench_runs
		WHERE category = ? AND name = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`,
		category, name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query bench history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RecordedAt, &r.Category, &r.Name,
			&r.Iterations, &r.MeanMS, &r.StddevMS, &r.MinMS, &r.MaxMS); err != nil {
			return nil, fmt.Errorf("scan bench record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bench records: %w", err)
	}
	return records, nil
}
