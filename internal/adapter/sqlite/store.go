// Package sqlite persists AI insights in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS insights (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	prompt     TEXT NOT NULL,
	answer     TEXT NOT NULL,
	score      REAL NOT NULL DEFAULT 0,
	confidence TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_insights_created_at ON insights(created_at);
`

// Store implements domain.InsightStore.
type Store struct {
	db *sql.DB
}

// Open creates or opens the insight database at path.
func Open(path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveInsight inserts or replaces an insight by ID.
func (s *Store) SaveInsight(ctx context.Context, in domain.Insight) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO insights (id, kind, prompt, answer, score, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, string(in.Kind), in.Prompt, in.Answer, in.Score, string(in.Confidence),
		in.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save insight %s: %w", in.ID, err)
	}
	return nil
}

// RecentInsights returns up to limit insights, newest first.
func (s *Store) RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, prompt, answer, score, confidence, created_at
		 FROM insights ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	var out []domain.Insight
	for rows.Next() {
		var (
			in                          domain.Insight
			kind, confidence, createdAt string
		)
		if err := rows.Scan(&in.ID, &kind, &in.Prompt, &in.Answer, &in.Score, &confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		in.Kind = domain.InsightKind(kind)
		in.Confidence = domain.ConfidenceLevel(confidence)
		if in.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", in.ID, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
