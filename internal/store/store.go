// Package store implements the case library: an append-only SQLite log of
// past pipeline runs. Cases are inserted once, never updated or deleted;
// whole-library export/import over JSONL is the only migration path.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get for an unknown case id.
var ErrNotFound = errors.New("case not found")

// IOError wraps a persistence failure. The invocation that hits one is
// treated as failed even if generation already succeeded.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("case store %s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	category TEXT NOT NULL DEFAULT '',
	market TEXT NOT NULL DEFAULT '',
	channels TEXT NOT NULL DEFAULT '',
	objective TEXT NOT NULL DEFAULT '',
	decision_type TEXT NOT NULL DEFAULT '',
	primary_tension TEXT NOT NULL DEFAULT '',
	decision_window TEXT NOT NULL DEFAULT '',
	input_json TEXT NOT NULL,
	decision_map_json TEXT NOT NULL,
	brief_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_created_at ON cases(created_at);
CREATE INDEX IF NOT EXISTS idx_cases_core ON cases(category, market, decision_type, decision_window);
`

// Store is a handle on one SQLite case library. Open one per invocation and
// Close it on every exit path; write serialization is the engine's problem.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// Open initializes the library at path, creating the directory and schema as
// needed. ":memory:" is supported for tests. A nil logger is replaced with a
// no-op one.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &IOError{Op: "open", Err: fmt.Errorf("failed to create directory %s: %w", dir, err)}
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set journal_mode=WAL", zap.Error(err))
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Err: fmt.Errorf("failed to initialize schema: %w", err)}
	}

	log.Debug("case store opened", zap.String("path", path))
	return &Store{db: db, path: path, log: log}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location the store was opened at.
func (s *Store) Path() string {
	return s.path
}
