package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"askmydocs/internal/config"
	"askmydocs/internal/engine"
	"askmydocs/internal/http"
	"askmydocs/internal/ingest"
	"askmydocs/internal/llm"
	"askmydocs/internal/mailbus"
	"askmydocs/internal/reindex"
	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	documentRepo := storage.NewDocumentRepo(db)
	emailCategoryRepo := storage.NewEmailCategoryRepo(db)
	historyRepo := storage.NewHistoryRepo(db)
	ownership := storage.NewOwnership(documentRepo, emailCategoryRepo)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure both collections exist with the correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.DocCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure document collection: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.EmailCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure email collection: %v", err)
	}
	slog.Info("Qdrant collections ready",
		"documents", cfg.DocCollection, "emails", cfg.EmailCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create query engine
	queryEngine := engine.NewEngine(
		embedder,
		vectorStore,
		cfg.DocCollection,
		cfg.EmailCollection,
		ownership,
		llmClient,
	)
	slog.Info("Query engine initialized")

	// Create document ingest pipeline
	ingestPipeline := ingest.NewPipeline(documentRepo, embedder, vectorStore, cfg.DocCollection)

	// Connect the email bus and start the reindex worker. The bus is
	// optional: without it, questions still work against whatever is
	// already indexed.
	if cfg.NATSURL != "" {
		bus, err := mailbus.NewClient(cfg.NATSURL, cfg.NATSToken, logger)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer bus.Close()

		worker := reindex.NewWorker(bus, embedder, vectorStore, cfg.EmailCollection, emailCategoryRepo)
		if err := worker.Start(ctx); err != nil {
			log.Fatalf("Failed to start reindex worker: %v", err)
		}
		slog.Info("Reindex worker started", "subject", mailbus.SubjectEmailSynced)
	} else {
		slog.Warn("NATS_URL not set, email indexing disabled")
	}

	// Create router with dependencies
	deps := &http.Deps{
		Engine:          queryEngine,
		Ingest:          ingestPipeline,
		Documents:       documentRepo,
		History:         historyRepo,
		VectorStore:     vectorStore,
		DocCollection:   cfg.DocCollection,
		EmailCollection: cfg.EmailCollection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
