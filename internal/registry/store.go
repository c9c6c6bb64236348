package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store is a SQLite-backed registry of business records.
//
// The underlying *sql.DB is opened once at startup and shared; schema
// creation is an explicit startup step via EnsureSchema rather than a
// lazily-initialized handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the SQLite database file at path.
// Call EnsureSchema before issuing reads or writes.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "regsync.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The store has a single synchronous writer; one connection avoids
	// SQLITE_BUSY between the web handlers and a running sync.
	db.SetMaxOpenConns(1)
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates the registry tables if they do not exist.
// Safe to call on every process start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const businesses = `CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		email TEXT NOT NULL,
		last_updated TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, businesses); err != nil {
		return fmt.Errorf("create businesses table: %w", err)
	}

	const runs = `CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		processed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		status TEXT NOT NULL,
		detail TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, runs); err != nil {
		return fmt.Errorf("create sync_runs table: %w", err)
	}
	return nil
}

// Upsert inserts rec or fully replaces the existing record with the same ID.
// There is no field-by-field merge: every column, including last_updated,
// takes the incoming value.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	const q = `INSERT INTO businesses (id, name, owner, phone, address, email, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			owner = excluded.owner,
			phone = excluded.phone,
			address = excluded.address,
			email = excluded.email,
			last_updated = excluded.last_updated`
	if _, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.Name, rec.Owner, rec.Phone, rec.Address, rec.Email, rec.LastUpdated,
	); err != nil {
		return fmt.Errorf("upsert business %s: %w", rec.ID, err)
	}
	return nil
}

// ListAll returns records ordered by most recent update first. Rows written
// in the same sync cycle share a timestamp, so id is a tiebreaker to keep the
// ordering stable. limit <= 0 means no limit.
func (s *Store) ListAll(ctx context.Context, limit int) ([]Record, error) {
	q := `SELECT id, name, owner, phone, address, email, last_updated
		FROM businesses ORDER BY last_updated DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Owner, &r.Phone, &r.Address, &r.Email, &r.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return n, nil
}

// RecordRun appends one entry to the sync-run history.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	const q = `INSERT INTO sync_runs (id, started_at, duration_ms, processed, skipped, status, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		run.ID, run.StartedAt, run.DurationMS, run.Processed, run.Skipped, run.Status, run.Detail,
	); err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent sync runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT id, started_at, duration_ms, processed, skipped, status, detail
		FROM sync_runs ORDER BY started_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.DurationMS, &r.Processed, &r.Skipped, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}
