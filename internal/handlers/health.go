package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	docCollection      string
	emailCollection    string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(vectorStore vectorstore.VectorStore, docCollection, emailCollection string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		docCollection:      docCollection,
		emailCollection:    emailCollection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkCollection(checkCtx, logger, h.docCollection) {
		checks["documents_collection"] = "ok"
	} else {
		checks["documents_collection"] = "error"
		issues = append(issues, "documents_collection_unavailable")
	}

	if h.checkCollection(checkCtx, logger, h.emailCollection) {
		checks["emails_collection"] = "ok"
	} else {
		checks["emails_collection"] = "error"
		issues = append(issues, "emails_collection_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkCollection checks that one vector store collection is reachable.
func (h *HealthHandler) checkCollection(ctx context.Context, logger *slog.Logger, collection string) bool {
	exists, err := h.vectorStore.CollectionExists(ctx, collection)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "collection", collection, "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", collection)
		return false
	}
	return true
}
