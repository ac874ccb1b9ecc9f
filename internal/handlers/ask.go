package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/engine"
	"askmydocs/internal/storage"
)

// AskHandler handles HTTP requests for question answering.
type AskHandler struct {
	engine  engine.Engine
	history storage.HistoryStore
}

// NewAskHandler creates a new AskHandler. history may be nil to disable
// query history persistence.
func NewAskHandler(eng engine.Engine, history storage.HistoryStore) *AskHandler {
	return &AskHandler{engine: eng, history: history}
}

// AskRequest represents the HTTP request payload for questions.
type AskRequest struct {
	Question  string `json:"question"`
	UserID    string `json:"user_id"`
	ScopeType string `json:"scope_type,omitempty"`
	ScopeID   string `json:"scope_id,omitempty"`
}

// AskResponse represents the HTTP response payload for questions.
type AskResponse struct {
	Answer    string           `json:"answer"`
	Sources   []SourceResponse `json:"sources"`
	FromCache bool             `json:"from_cache"`
	ElapsedMs int64            `json:"elapsed_ms"`
}

// SourceResponse is one cited source in the HTTP response.
type SourceResponse struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for question answering.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}
	if req.UserID == "" {
		logger.WarnContext(ctx, "missing user_id in request")
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	scope, ok := parseScope(req.ScopeType, req.ScopeID)
	if !ok {
		logger.WarnContext(ctx, "invalid scope in request", "scope_type", req.ScopeType)
		writeError(w, http.StatusBadRequest, "Invalid scope_type")
		return
	}

	answer, err := h.engine.AnswerQuestion(ctx, engine.AnswerRequest{
		Question: req.Question,
		UserID:   req.UserID,
		Scope:    scope,
	})
	if err != nil {
		h.handleEngineError(w, r, err)
		return
	}

	sources := make([]SourceResponse, len(answer.Sources))
	for i, src := range answer.Sources {
		sources[i] = SourceResponse{
			Kind:  string(src.Kind),
			ID:    src.ID,
			Label: src.Label,
		}
	}

	resp := AskResponse{
		Answer:    answer.Answer,
		Sources:   sources,
		FromCache: answer.FromCache,
		ElapsedMs: answer.ElapsedMs,
	}

	h.recordHistory(r, req, resp)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// parseScope converts the HTTP scope fields into an engine scope. An empty
// scope_type means search everything.
func parseScope(scopeType, scopeID string) (engine.SearchScope, bool) {
	switch engine.ScopeType(scopeType) {
	case "", engine.ScopeAll:
		return engine.SearchScope{Type: engine.ScopeAll}, true
	case engine.ScopeDocument:
		if scopeID == "" {
			return engine.SearchScope{}, false
		}
		return engine.SearchScope{Type: engine.ScopeDocument, ID: scopeID}, true
	case engine.ScopeEmailCategory:
		return engine.SearchScope{Type: engine.ScopeEmailCategory, ID: scopeID}, true
	default:
		return engine.SearchScope{}, false
	}
}

// handleEngineError maps engine errors to HTTP status codes.
func (h *AskHandler) handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	switch {
	case errors.Is(err, engine.ErrInvalidSource):
		writeError(w, http.StatusNotFound, "Unknown document or email category")
	case errors.Is(err, engine.ErrRetrievalUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Search is temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to answer question")
	}
}

// recordHistory persists the answered question. Failures are logged only;
// history is never allowed to fail a successful answer.
func (h *AskHandler) recordHistory(r *http.Request, req AskRequest, resp AskResponse) {
	if h.history == nil {
		return
	}
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sourcesJSON, err := json.Marshal(resp.Sources)
	if err != nil {
		logger.WarnContext(ctx, "failed to marshal sources for history", "error", err)
		sourcesJSON = []byte("[]")
	}

	rec := &storage.QueryRecord{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Question:    req.Question,
		Answer:      resp.Answer,
		SourcesJSON: string(sourcesJSON),
		FromCache:   resp.FromCache,
		ElapsedMs:   resp.ElapsedMs,
	}
	if err := h.history.Insert(ctx, rec); err != nil {
		logger.WarnContext(ctx, "failed to record query history", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
