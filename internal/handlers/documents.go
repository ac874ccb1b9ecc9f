package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/storage"
)

// DocumentsHandler lists a user's uploaded documents.
type DocumentsHandler struct {
	docs storage.DocumentStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docs storage.DocumentStore) *DocumentsHandler {
	return &DocumentsHandler{docs: docs}
}

// DocumentResponse is one document in the listing response.
type DocumentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ServeHTTP handles GET /api/documents?user_id=...
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	docs, err := h.docs.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	resp := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		resp[i] = DocumentResponse{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Title:      doc.Title,
			Category:   doc.Category,
			UploadedAt: doc.UploadedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
