// Package store persists routing history in SQLite for later inspection.
// The in-memory translation cache never touches disk; this store only keeps
// an audit trail of requests and their outcomes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/transroute/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS route_requests (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS route_results (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		confidence REAL,
		cost REAL,
		latency_ms INTEGER,
		from_cache BOOLEAN DEFAULT FALSE,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES route_requests(id)
	);

	CREATE INDEX IF NOT EXISTS idx_results_request ON route_results(request_id);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON route_requests(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRequest(ctx context.Context, req internal.TranslationRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO route_requests (id, source_text, source_lang, target_lang, created_at) VALUES (?, ?, ?, ?, ?)`,
		req.ID, normalizeText(req.SourceText), req.SourceLang, req.TargetLang, req.Timestamp)
	return err
}

// SaveOutcome records the final result (or failure) of one routed request.
func (s *Store) SaveOutcome(ctx context.Context, requestID, provider, translatedText string, confidence, cost float64, latencyMs int, fromCache bool, errMsg string) error {
	id := fmt.Sprintf("%s_%s", requestID, provider)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO route_results (id, request_id, provider, translated_text, confidence, cost, latency_ms, from_cache, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, requestID, provider, translatedText, confidence, cost, latencyMs, fromCache, errMsg)
	return err
}

// HistoryEntry is one routed request joined with its recorded outcome.
type HistoryEntry struct {
	RequestID  string
	SourceText string
	SourceLang string
	TargetLang string
	Provider   string
	FinalText  string
	Confidence float64
	FromCache  bool
	Error      string
	CreatedAt  time.Time
}

// ListHistory returns the most recent routed requests, newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source_text, r.source_lang, r.target_lang,
		       COALESCE(o.provider, ''), COALESCE(o.translated_text, ''),
		       COALESCE(o.confidence, 0), COALESCE(o.from_cache, FALSE),
		       COALESCE(o.error, ''), r.created_at
		FROM route_requests r
		LEFT JOIN route_results o ON o.request_id = r.id
		ORDER BY r.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.RequestID, &e.SourceText, &e.SourceLang, &e.TargetLang,
			&e.Provider, &e.FinalText, &e.Confidence, &e.FromCache, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearHistory removes all recorded requests and outcomes, returning the
// number of requests dropped.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM route_results`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM route_requests`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HistoryStats summarises recorded routing activity.
type HistoryStats struct {
	TotalRequests int
	Succeeded     int
	Failed        int
	CacheHits     int
	AvgConfidence float64
}

func (s *Store) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM route_requests),
			COALESCE(SUM(CASE WHEN error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN from_cache THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(CASE WHEN error = '' THEN confidence END), 0)
		FROM route_results`).Scan(
		&stats.TotalRequests,
		&stats.Succeeded,
		&stats.Failed,
		&stats.CacheHits,
		&stats.AvgConfidence,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// repeated requests of the same text compare equal in history queries.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
