// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists recent searches so they can be recalled across
// sessions.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultLimit is how many recent searches callers usually want.
const DefaultLimit = 50

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// searched_at is Unix milliseconds; SQLite has no native time type.
const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id           TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	result_count INTEGER NOT NULL,
	searched_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at DESC);
`

// Entry is one recorded search.
type Entry struct {
	ID          string
	Query       string
	ResultCount int
	SearchedAt  time.Time
}

// Store is a SQLite-backed search history.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record saves one search. Consecutive duplicates are collapsed: repeating
// the latest query refreshes its timestamp and count instead of inserting
// a new row. Empty queries are ignored.
func (s *Store) Record(query string, resultCount int) error {
	if s.db == nil {
		return ErrClosed
	}
	if query == "" {
		return nil
	}

	var lastID, lastQuery string
	err := s.db.QueryRow(
		"SELECT id, query FROM searches ORDER BY searched_at DESC LIMIT 1",
	).Scan(&lastID, &lastQuery)
	switch {
	case err == nil && lastQuery == query:
		_, err = s.db.Exec(
			"UPDATE searches SET result_count = ?, searched_at = ? WHERE id = ?",
			resultCount, time.Now().UnixMilli(), lastID,
		)
		return err
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO searches (id, query, result_count, searched_at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), query, resultCount, time.Now().UnixMilli(),
	)
	return err
}

// Recent returns up to limit searches, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		"SELECT id, query, result_count, searched_at FROM searches ORDER BY searched_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Query, &e.ResultCount, &at); err != nil {
			return nil, err
		}
		e.SearchedAt = time.UnixMilli(at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune keeps only the newest keep entries.
func (s *Store) Prune(keep int) error {
	if s.db == nil {
		return ErrClosed
	}
	if keep <= 0 {
		_, err := s.db.Exec("DELETE FROM searches")
		return err
	}
	_, err := s.db.Exec(
		`DELETE FROM searches WHERE id NOT IN
			(SELECT id FROM searches ORDER BY searched_at DESC LIMIT ?)`,
		keep,
	)
	return err
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
