package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"askmydocs/internal/storage"
)

func TestHistoryHandler(t *testing.T) {
	store := &fakeHistoryStore{
		records: []storage.QueryRecord{
			{
				ID:          "q1",
				UserID:      "u1",
				Question:    "How much did I pay John Smith?",
				Answer:      "You paid **$2,500** to John Smith.",
				SourcesJSON: `[{"kind":"document","id":"doc-1","label":"Statement"}]`,
				FromCache:   true,
				ElapsedMs:   12,
			},
		},
	}
	h := NewHistoryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/history?user_id=u1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp []HistoryEntryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("got %d entries, want 1", len(resp))
	}

	entry := resp[0]
	if entry.Answer != "You paid **$2,500** to John Smith." {
		t.Errorf("Answer = %q", entry.Answer)
	}
	if !strings.Contains(entry.AnswerHTML, "<strong>$2,500</strong>") {
		t.Errorf("AnswerHTML = %q, want rendered markdown", entry.AnswerHTML)
	}
	if len(entry.Sources) != 1 || entry.Sources[0].ID != "doc-1" {
		t.Errorf("Sources = %+v", entry.Sources)
	}
	if !entry.FromCache {
		t.Error("FromCache flag must survive the round trip")
	}
}

func TestHistoryHandler_BadSourcesJSONIsNotFatal(t *testing.T) {
	store := &fakeHistoryStore{
		records: []storage.QueryRecord{
			{ID: "q1", UserID: "u1", Question: "q", Answer: "a", SourcesJSON: "{broken"},
		},
	}
	h := NewHistoryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/history?user_id=u1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []HistoryEntryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || len(resp[0].Sources) != 0 {
		t.Errorf("entry with broken sources must still be returned: %+v", resp)
	}
}

func TestHistoryHandler_InvalidLimit(t *testing.T) {
	h := NewHistoryHandler(&fakeHistoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/history?user_id=u1&limit=abc", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHistoryHandler_MissingUserID(t *testing.T) {
	h := NewHistoryHandler(&fakeHistoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
