// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records completed relocations in a SQLite database.
// The journal is an audit trail only: the datetree itself remains the
// persisted state the pipeline relies on, and nothing in the resolution
// or refiling path reads the journal back.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/refile-engine/pkg/types"
)

const dbFile = "journal.db"

// Entry is one recorded relocation.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	DestPath   string    `json:"dest_path" yaml:"dest_path"`
	Stamp      string    `json:"date" yaml:"date"`
	DateSource string    `json:"date_source" yaml:"date_source"`
	RefiledAt  time.Time `json:"refiled_at" yaml:"refiled_at"`
}

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Exists reports whether a journal database is already present under dir.
// It never creates anything, so read-only callers can avoid the side
// effects of Open.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, dbFile))
	return err == nil
}

// Open opens or creates the journal database under dir, creating the
// schema when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL,
			dest_path TEXT NOT NULL,
			date TEXT NOT NULL,
			date_source TEXT NOT NULL,
			refiled_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refiles_date ON refiles(date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one completed relocation.
func (s *Store) Record(ctx context.Context, sourcePath string, target types.RefileTarget, date types.DateCandidate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refiles (source_path, dest_path, date, date_source, refiled_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sourcePath, target.File, date.Stamp(), string(date.Source),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording refile of %s: %w", sourcePath, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, dest_path, date, date_source, refiled_at
		 FROM refiles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.SourcePath, &e.DestPath, &e.Stamp, &e.DateSource, &at); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, at); parseErr == nil {
			e.RefiledAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
