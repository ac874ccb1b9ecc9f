package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/ingest"
)

// UploadHandler accepts document uploads and indexes them.
type UploadHandler struct {
	pipeline *ingest.Pipeline
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(pipeline *ingest.Pipeline) *UploadHandler {
	return &UploadHandler{pipeline: pipeline}
}

// UploadRequest represents the HTTP request payload for document uploads.
// Content is markdown or plain text.
type UploadRequest struct {
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// UploadResponse represents the HTTP response for a successful upload.
type UploadResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// ServeHTTP handles POST /api/documents.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	doc, err := h.pipeline.IngestDocument(ctx, req.UserID, req.Filename, []byte(req.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to ingest document", "filename", req.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to index document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(UploadResponse{
		ID:       doc.ID,
		Title:    doc.Title,
		Category: doc.Category,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
