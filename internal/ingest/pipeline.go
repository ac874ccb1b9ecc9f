package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

// Embedder turns chunk text into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline indexes uploaded documents: chunk, classify, embed, and store.
type Pipeline struct {
	docs       storage.DocumentStore
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
	chunker    *Chunker
	logger     *slog.Logger
}

// NewPipeline creates a new ingest pipeline.
func NewPipeline(
	docs storage.DocumentStore,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	collection string,
) *Pipeline {
	return &Pipeline{
		docs:       docs,
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		chunker:    NewChunker(),
		logger:     slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (p *Pipeline) getLogger(ctx context.Context) *slog.Logger {
	if logger := contextutil.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return p.logger
}

// IngestDocument chunks one uploaded document, embeds the chunks, writes
// them to the vector store, and records the ownership row. The returned
// document carries the generated id.
func (p *Pipeline) IngestDocument(ctx context.Context, userID, filename string, content []byte) (*storage.Document, error) {
	logger := p.getLogger(ctx)

	title, chunks, err := p.chunker.ChunkDocument(content, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no indexable content")
	}

	category := ClassifyDocument(title, string(content))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	doc := &storage.Document{
		ID:       uuid.New().String(),
		UserID:   userID,
		Filename: filename,
		Title:    title,
		Category: category,
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: embeddings[i],
			Meta: map[string]any{
				"user_id":     userID,
				"document_id": doc.ID,
				"filename":    filename,
				"title":       title,
				"category":    category,
				"section":     chunk.Section,
				"chunk_index": chunk.Index,
				"text":        chunk.Text,
			},
		}
	}

	if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
		return nil, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if err := p.docs.Insert(ctx, doc); err != nil {
		// Orphaned vectors are invisible to ownership checks but waste
		// space; remove them so a retry starts clean.
		ids := make([]string, len(points))
		for i, pt := range points {
			ids[i] = pt.ID
		}
		if delErr := p.vectors.Delete(ctx, p.collection, ids); delErr != nil {
			logger.WarnContext(ctx, "failed to clean up vectors after insert failure", "error", delErr)
		}
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	logger.InfoContext(ctx, "ingested document",
		"document_id", doc.ID, "user_id", userID, "title", title,
		"category", category, "chunks", len(chunks))
	return doc, nil
}
