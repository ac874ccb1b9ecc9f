package storage

import "context"

// Ownership adapts the document and email category repos into the single
// ownership view the query engine consumes.
type Ownership struct {
	docs   DocumentStore
	emails EmailCategoryStore
}

// NewOwnership creates an Ownership over the two repos.
func NewOwnership(docs DocumentStore, emails EmailCategoryStore) *Ownership {
	return &Ownership{docs: docs, emails: emails}
}

// DocumentOwnedBy reports whether the document exists and belongs to the user.
func (o *Ownership) DocumentOwnedBy(ctx context.Context, documentID, userID string) (bool, error) {
	return o.docs.OwnedBy(ctx, documentID, userID)
}

// CountDocuments returns how many documents the user has uploaded.
func (o *Ownership) CountDocuments(ctx context.Context, userID string) (int, error) {
	return o.docs.CountByUser(ctx, userID)
}

// ListDocumentCategories returns the distinct categories of the user's documents.
func (o *Ownership) ListDocumentCategories(ctx context.Context, userID string) ([]string, error) {
	return o.docs.ListCategories(ctx, userID)
}

// EmailCategoryExists reports whether the user has emails in the category.
func (o *Ownership) EmailCategoryExists(ctx context.Context, userID, category string) (bool, error) {
	return o.emails.Exists(ctx, userID, category)
}
