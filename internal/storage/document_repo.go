package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks askmydocs/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document metadata operations.
type DocumentStore interface {
	// Insert inserts a document row. ID must be set (UUID) by the caller.
	Insert(ctx context.Context, doc *Document) error
	// GetByID gets a document by its ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id string) (*Document, error)
	// OwnedBy reports whether the document exists and belongs to the user.
	OwnedBy(ctx context.Context, id, userID string) (bool, error)
	// CountByUser returns how many documents the user has.
	CountByUser(ctx context.Context, userID string) (int, error)
	// ListByUser returns the user's documents, newest first.
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	// ListCategories returns the distinct categories of the user's documents.
	ListCategories(ctx context.Context, userID string) ([]string, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a document row.
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, user_id, filename, title, category) VALUES (?, ?, ?, ?, ?)",
		doc.ID, doc.UserID, doc.Filename, doc.Title, doc.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if missing.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, filename, title, category, uploaded_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.Title, &doc.Category, &doc.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// OwnedBy reports whether the document exists and belongs to the user.
func (r *DocumentRepo) OwnedBy(ctx context.Context, id, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check document ownership: %w", err)
	}
	return count > 0, nil
}

// CountByUser returns how many documents the user has.
func (r *DocumentRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM documents WHERE user_id = ?",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ListByUser returns the user's documents, newest first.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, filename, title, category, uploaded_at FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.Title, &doc.Category, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// ListCategories returns the distinct categories of the user's documents.
func (r *DocumentRepo) ListCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM documents WHERE user_id = ? ORDER BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}
