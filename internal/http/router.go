package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"askmydocs/internal/engine"
	"askmydocs/internal/handlers"
	"askmydocs/internal/ingest"
	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine          engine.Engine
	Ingest          *ingest.Pipeline
	Documents       storage.DocumentStore
	History         storage.HistoryStore
	VectorStore     vectorstore.VectorStore
	DocCollection   string
	EmailCollection string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine, deps.History)
	uploadHandler := handlers.NewUploadHandler(deps.Ingest)
	documentsHandler := handlers.NewDocumentsHandler(deps.Documents)
	historyHandler := handlers.NewHistoryHandler(deps.History)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.DocCollection, deps.EmailCollection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/documents", uploadHandler)
		r.Method(http.MethodGet, "/documents", documentsHandler)
		r.Method(http.MethodGet, "/history", historyHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
