// Package store keeps classifier results in a local SQLite database so
// re-runs over the same sequences skip the classifier.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation, so the binary
// needs no cgo.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS bundles (
	sequence   TEXT    NOT NULL,
	max_scan   INTEGER NOT NULL,
	payload    BLOB    NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (sequence, max_scan)
)`

// Store is a bundle cache backed by one SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the cache at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	// Serialize access: workers wait in database/sql instead of hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Get returns the payload for (seq, maxScan) and whether it was present.
func (s *Store) Get(ctx context.Context, seq string, maxScan int) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM bundles WHERE sequence = ? AND max_scan = ?`,
		seq, maxScan,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Put stores payload for (seq, maxScan), replacing any previous entry.
func (s *Store) Put(ctx context.Context, seq string, maxScan int, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bundles (sequence, max_scan, payload) VALUES (?, ?, ?)
		 ON CONFLICT (sequence, max_scan) DO UPDATE SET payload = excluded.payload`,
		seq, maxScan, payload,
	)
	return err
}

// Len returns the number of cached bundles.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bundles`).Scan(&n)
	return n, err
}
