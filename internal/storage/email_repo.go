package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// EmailCategoryStore defines the interface for email category bookkeeping.
type EmailCategoryStore interface {
	// Exists reports whether the user has any emails in the category.
	Exists(ctx context.Context, userID, name string) (bool, error)
	// ListByUser returns the user's email categories.
	ListByUser(ctx context.Context, userID string) ([]EmailCategory, error)
	// Increment bumps the email count for a category, creating it if needed.
	Increment(ctx context.Context, userID, name string) error
}

// EmailCategoryRepo provides methods for email category operations.
// It implements the EmailCategoryStore interface.
type EmailCategoryRepo struct {
	db *sql.DB
}

// NewEmailCategoryRepo creates a new EmailCategoryRepo.
func NewEmailCategoryRepo(db *sql.DB) *EmailCategoryRepo {
	return &EmailCategoryRepo{db: db}
}

// Exists reports whether the user has any emails in the category.
func (r *EmailCategoryRepo) Exists(ctx context.Context, userID, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM email_categories WHERE user_id = ? AND name = ? AND email_count > 0",
		userID, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email category: %w", err)
	}
	return count > 0, nil
}

// ListByUser returns the user's email categories.
func (r *EmailCategoryRepo) ListByUser(ctx context.Context, userID string) ([]EmailCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, name, email_count, updated_at FROM email_categories WHERE user_id = ? ORDER BY name",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query email categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []EmailCategory
	for rows.Next() {
		var c EmailCategory
		if err := rows.Scan(&c.UserID, &c.Name, &c.EmailCount, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan email category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

// Increment bumps the email count for a category, creating it if needed.
func (r *EmailCategoryRepo) Increment(ctx context.Context, userID, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_categories (user_id, name, email_count, updated_at)
		 VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id, name)
		 DO UPDATE SET email_count = email_count + 1, updated_at = CURRENT_TIMESTAMP`,
		userID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to increment email category: %w", err)
	}
	return nil
}
