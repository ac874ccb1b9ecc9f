package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/storage"
)

// HistoryHandler serves a user's recent questions and answers. Answers are
// stored as markdown and rendered to HTML for display.
type HistoryHandler struct {
	history  storage.HistoryStore
	markdown goldmark.Markdown
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history storage.HistoryStore) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// HistoryEntryResponse is one answered question in the history listing.
type HistoryEntryResponse struct {
	ID         string           `json:"id"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	AnswerHTML string           `json:"answer_html"`
	Sources    []SourceResponse `json:"sources"`
	FromCache  bool             `json:"from_cache"`
	ElapsedMs  int64            `json:"elapsed_ms"`
	AskedAt    time.Time        `json:"asked_at"`
}

// ServeHTTP handles GET /api/history?user_id=...&limit=...
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.history.ListRecent(ctx, userID, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list history", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	resp := make([]HistoryEntryResponse, len(records))
	for i, rec := range records {
		var sources []SourceResponse
		if rec.SourcesJSON != "" {
			if err := json.Unmarshal([]byte(rec.SourcesJSON), &sources); err != nil {
				logger.WarnContext(ctx, "failed to decode stored sources", "record_id", rec.ID, "error", err)
			}
		}

		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(rec.Answer), &buf); err != nil {
			logger.WarnContext(ctx, "failed to render answer markdown", "record_id", rec.ID, "error", err)
			buf.Reset()
		}

		resp[i] = HistoryEntryResponse{
			ID:         rec.ID,
			Question:   rec.Question,
			Answer:     rec.Answer,
			AnswerHTML: buf.String(),
			Sources:    sources,
			FromCache:  rec.FromCache,
			ElapsedMs:  rec.ElapsedMs,
			AskedAt:    rec.AskedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
