// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides a local SQLite index over saved conversations
// for fast cross-session message search.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/itinera-labs/itinera-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("index closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SEARCH INDEX
// =============================================================================

// SearchResult is a single message hit from a search.
type SearchResult struct {
	SessionID   string
	SessionName string
	MessageID   string
	Role        model.Role
	Content     string
	Timestamp   time.Time
}

// SearchIndex maintains a SQLite database of all session messages.
// Rebuild replaces the whole index; it is cheap at the scale of a
// local chat history.
type SearchIndex struct {
	db *sql.DB
	mu sync.RWMutex

	lastIndexed  time.Time
	messageCount int
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	message_id   TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	session_name TEXT NOT NULL,
	role         TEXT NOT NULL,
	content      TEXT NOT NULL,
	timestamp    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
CREATE INDEX IF NOT EXISTS idx_messages_content ON messages(content);
`

// Open opens (or creates) the search index at dbPath.
func Open(dbPath string) (*SearchIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", ErrDatabaseError, err)
	}

	return &SearchIndex{db: db}, nil
}

// Close releases the underlying database.
func (ix *SearchIndex) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// Rebuild replaces the index contents with the messages of the given
// sessions.
func (ix *SearchIndex) Rebuild(ctx context.Context, sessions []*model.Session) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.db == nil {
		return ErrClosed
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (message_id, session_id, session_name, role, content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	count := 0
	for _, s := range sessions {
		for _, m := range s.Messages {
			if _, err := stmt.ExecContext(ctx,
				m.ID, s.ID, s.Name, string(m.Role), m.Content, m.Timestamp.UnixMilli(),
			); err != nil {
				return fmt.Errorf("%w: %v", ErrDatabaseError, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	ix.messageCount = count
	ix.lastIndexed = time.Now()
	return nil
}

// Search returns messages whose content contains the query,
// case-insensitively, newest first, up to limit results.
func (ix *SearchIndex) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.db == nil {
		return nil, ErrClosed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := ix.db.QueryContext(ctx, `
		SELECT message_id, session_id, session_name, role, content, timestamp
		FROM messages
		WHERE content LIKE ? ESCAPE '\'
		ORDER BY timestamp DESC
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var role string
		var ts int64
		if err := rows.Scan(&r.MessageID, &r.SessionID, &r.SessionName, &role, &r.Content, &ts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		r.Role = model.Role(role)
		r.Timestamp = time.UnixMilli(ts)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Stats reports the number of indexed messages and the last rebuild time.
func (ix *SearchIndex) Stats() (int, time.Time) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.messageCount, ix.lastIndexed
}

// escapeLike escapes LIKE metacharacters so queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
