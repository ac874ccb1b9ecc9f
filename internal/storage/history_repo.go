package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// HistoryStore defines the interface for query history persistence.
// Writes are best-effort: a failed insert never fails the answer.
type HistoryStore interface {
	// Insert records one answered question. ID must be set (UUID).
	Insert(ctx context.Context, rec *QueryRecord) error
	// ListRecent returns the user's most recent queries, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]QueryRecord, error)
}

// HistoryRepo provides methods for query history operations.
// It implements the HistoryStore interface.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert records one answered question.
func (r *HistoryRepo) Insert(ctx context.Context, rec *QueryRecord) error {
	fromCache := 0
	if rec.FromCache {
		fromCache = 1
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO query_history (id, user_id, question, answer, sources_json, from_cache, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.UserID, rec.Question, rec.Answer, rec.SourcesJSON, fromCache, rec.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	return nil
}

// ListRecent returns the user's most recent queries, newest first.
func (r *HistoryRepo) ListRecent(ctx context.Context, userID string, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, question, answer, sources_json, from_cache, elapsed_ms, asked_at
		 FROM query_history WHERE user_id = ? ORDER BY asked_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []QueryRecord
	for rows.Next() {
		var rec QueryRecord
		var fromCache int
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Question, &rec.Answer, &rec.SourcesJSON, &fromCache, &rec.ElapsedMs, &rec.AskedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		rec.FromCache = fromCache == 1
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
