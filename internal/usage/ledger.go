// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// schema creates the requests table.
const schema = `
CREATE TABLE IF NOT EXISTS requests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    at INTEGER NOT NULL,            -- Unix milliseconds
    op TEXT NOT NULL,               -- chat, summary, fact, ask
    model TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    ok INTEGER NOT NULL,            -- 1 success, 0 failure
    prompt_tokens INTEGER NOT NULL DEFAULT 0,
    response_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_requests_op ON requests(op);
CREATE INDEX IF NOT EXISTS idx_requests_at ON requests(at);
`

// Ledger is a Recorder backed by a SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens (and creates when needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("usage: database path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=2000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Record inserts one entry. A zero At is stamped with the current time.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO requests (at, op, model, duration_ms, ok, prompt_tokens, response_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.At.UnixMilli(), string(e.Op), e.Model, e.Duration.Milliseconds(), ok, e.PromptTokens, e.ResponseTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Totals aggregates the ledger per operation, ordered by operation name.
func (l *Ledger) Totals(ctx context.Context) ([]Total, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT op,
		       COUNT(*),
		       SUM(CASE WHEN ok = 0 THEN 1 ELSE 0 END),
		       COALESCE(SUM(prompt_tokens), 0),
		       COALESCE(SUM(response_tokens), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM requests
		GROUP BY op
		ORDER BY op`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var totals []Total
	for rows.Next() {
		var (
			t     Total
			op    string
			avgMs float64
		)
		if err := rows.Scan(&op, &t.Requests, &t.Failures, &t.PromptTokens, &t.ResponseTokens, &avgMs); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		t.Op = Op(op)
		t.AvgDuration = time.Duration(avgMs * float64(time.Millisecond))
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Since returns the number of requests recorded at or after t.
func (l *Ledger) Since(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests WHERE at >= ?`, t.UnixMilli()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
