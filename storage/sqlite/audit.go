package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	query_text     TEXT NOT NULL,
	intent         TEXT NOT NULL,
	matched_claims TEXT,
	response_text  TEXT,
	latency_ms     INTEGER NOT NULL,
	meta_json      TEXT,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS query_log_created_at ON query_log(created_at);
`

// AuditLog implements storage.AuditLog on SQLite.
type AuditLog struct {
	db *sql.DB
}

var _ storage.AuditLog = (*AuditLog)(nil)

// OpenAuditLog opens a SQLite database and runs migrations.
// Use ":memory:" for a throwaway log.
func OpenAuditLog(dbPath string) (*AuditLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Close closes the underlying database connection.
func (a *AuditLog) Close() error {
	return a.db.Close()
}

// RecordQuery appends one entry to the query_log table.
func (a *AuditLog) RecordQuery(ctx context.Context, entry *core.QueryLog) error {
	if entry == nil {
		return fmt.Errorf("%w: nil query log entry", storage.ErrInvalidQuery)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	matched, err := marshalOptional(entry.MatchedClaims, len(entry.MatchedClaims) == 0)
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	meta, err := marshalOptional(entry.Meta, len(entry.Meta) == 0)
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO query_log (query_text, intent, matched_claims, response_text, latency_ms, meta_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Text,
		entry.Intent,
		matched,
		nullIfEmpty(entry.ResponseText),
		entry.LatencyMS,
		meta,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// RecentQueries returns up to limit entries, newest first.
func (a *AuditLog) RecentQueries(ctx context.Context, limit int) ([]*core.QueryLog, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT query_text, intent, matched_claims, response_text, latency_ms, meta_json, created_at
		 FROM query_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	defer rows.Close()

	var entries []*core.QueryLog
	for rows.Next() {
		var (
			entry                   core.QueryLog
			matched, response, meta sql.NullString
			createdAt               string
		)
		if err := rows.Scan(&entry.Text, &entry.Intent, &matched, &response, &entry.LatencyMS, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		entry.ResponseText = response.String
		if matched.Valid {
			if err := json.Unmarshal([]byte(matched.String), &entry.MatchedClaims); err != nil {
				return nil, fmt.Errorf("decode matched claims: %w", err)
			}
		}
		if meta.Valid {
			if err := json.Unmarshal([]byte(meta.String), &entry.Meta); err != nil {
				return nil, fmt.Errorf("decode meta: %w", err)
			}
		}
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func marshalOptional(v any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
