package reindex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/mailbus"
	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

// Embedder turns email text into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Subscriber is the slice of the message bus the worker needs.
type Subscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) error
}

const (
	// queueSize bounds the backlog of synced emails awaiting indexing.
	queueSize = 256
	// poolSize is the number of goroutines draining the queue.
	poolSize = 4
)

// Worker consumes synced-email events and indexes each email into the
// email collection so the query engine can retrieve it. Events are queued
// and drained by a fixed pool of goroutines, keeping indexing off the bus
// delivery goroutine and off the query path.
type Worker struct {
	bus        Subscriber
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
	emailCats  storage.EmailCategoryStore
	queue      chan mailbus.EmailSyncedEvent
	logger     *slog.Logger
}

// NewWorker creates a reindex worker. Call Start to begin consuming.
func NewWorker(
	bus Subscriber,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	collection string,
	emailCats storage.EmailCategoryStore,
) *Worker {
	return &Worker{
		bus:        bus,
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		emailCats:  emailCats,
		queue:      make(chan mailbus.EmailSyncedEvent, queueSize),
		logger:     slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (w *Worker) getLogger(ctx context.Context) *slog.Logger {
	if logger := contextutil.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return w.logger
}

// Start launches the indexing pool and subscribes to the email-synced
// subject. The subscription handler only decodes and enqueues; when the
// queue is full the event is logged and dropped, never blocking the bus
// delivery goroutine. The pool runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	for i := 0; i < poolSize; i++ {
		go w.run(ctx)
	}
	return w.bus.Subscribe(mailbus.SubjectEmailSynced, func(_ string, data []byte) {
		var event mailbus.EmailSyncedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			w.logger.Error("failed to decode email event", "error", err)
			return
		}
		select {
		case w.queue <- event:
		default:
			w.logger.Warn("reindex queue full, dropping event",
				"email_id", event.EmailID, "user_id", event.UserID)
		}
	})
}

// run drains the queue. A failed event is logged and dropped, it never
// stops the pool.
func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.queue:
			if err := w.IndexEmail(ctx, event); err != nil {
				w.logger.Error("failed to index email",
					"email_id", event.EmailID, "user_id", event.UserID, "error", err)
			}
		}
	}
}

// IndexEmail classifies one email, embeds it, and writes it to the vector
// store. The category tally in SQLite is updated best-effort.
func (w *Worker) IndexEmail(ctx context.Context, event mailbus.EmailSyncedEvent) error {
	logger := w.getLogger(ctx)

	if event.UserID == "" || event.EmailID == "" {
		return fmt.Errorf("event missing user_id or email_id")
	}
	if event.Body == "" && event.Subject == "" {
		logger.DebugContext(ctx, "skipping empty email", "email_id", event.EmailID)
		return nil
	}

	category := ClassifyEmail(event.Sender, event.Subject, event.Body)

	embedText := event.Subject + "\n" + event.Body
	embeddings, err := w.embedder.EmbedTexts(ctx, []string{embedText})
	if err != nil {
		return fmt.Errorf("failed to embed email: %w", err)
	}
	if len(embeddings) != 1 {
		return fmt.Errorf("embedding count mismatch: expected 1, got %d", len(embeddings))
	}

	point := vectorstore.Point{
		ID:  uuid.New().String(),
		Vec: embeddings[0],
		Meta: map[string]any{
			"user_id":  event.UserID,
			"email_id": event.EmailID,
			"sender":   event.Sender,
			"subject":  event.Subject,
			"text":     event.Body,
			"category": category,
			"date":     event.Date.Format(time.RFC3339),
		},
	}

	if err := w.vectors.Upsert(ctx, w.collection, []vectorstore.Point{point}); err != nil {
		return fmt.Errorf("failed to upsert email vector: %w", err)
	}

	if err := w.emailCats.Increment(ctx, event.UserID, category); err != nil {
		// The vector is already indexed and searchable; a stale tally only
		// affects category existence checks.
		logger.WarnContext(ctx, "failed to update category tally",
			"user_id", event.UserID, "category", category, "error", err)
	}

	logger.InfoContext(ctx, "indexed email",
		"email_id", event.EmailID, "user_id", event.UserID, "category", category)
	return nil
}
