package engine

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks askmydocs/internal/engine Embedder,Searcher,Generator,OwnershipStore,Engine

import (
	"context"

	"askmydocs/internal/llm"
	"askmydocs/internal/vectorstore"
)

// Embedder is the embedding primitive. Failure means "no passages from
// this retrieval pass", never a fatal error for the whole query.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the black-box similarity search primitive. Both corpora
// live behind it, in separate collections.
type Searcher interface {
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]vectorstore.SearchResult, error)
}

// Generator is the black-box text-completion primitive.
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// OwnershipStore validates source selections against the requesting user
// and enumerates what the user has, for fallback messaging.
type OwnershipStore interface {
	// DocumentOwnedBy reports whether the document exists and belongs to the user.
	DocumentOwnedBy(ctx context.Context, documentID, userID string) (bool, error)
	// CountDocuments returns how many documents the user has uploaded.
	CountDocuments(ctx context.Context, userID string) (int, error)
	// ListDocumentCategories returns the distinct categories of the user's documents.
	ListDocumentCategories(ctx context.Context, userID string) ([]string, error)
	// EmailCategoryExists reports whether the user has emails in the category.
	EmailCategoryExists(ctx context.Context, userID, category string) (bool, error)
}

// Engine answers natural-language questions over a user's documents and
// emails, citing sources.
type Engine interface {
	AnswerQuestion(ctx context.Context, req AnswerRequest) (AnswerResponse, error)
}
