package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Healthy(t *testing.T) {
	store := &fakeVectorStore{collections: map[string]bool{"documents": true, "emails": true}}
	h := NewHealthHandler(store, "documents", "emails")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Checks["documents_collection"] != "ok" || resp.Checks["emails_collection"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
	if len(resp.Issues) != 0 {
		t.Errorf("issues = %v, want none", resp.Issues)
	}
}

func TestHealthHandler_MissingCollection(t *testing.T) {
	store := &fakeVectorStore{collections: map[string]bool{"documents": true}}
	h := NewHealthHandler(store, "documents", "emails")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", resp.Status)
	}
	if resp.Checks["emails_collection"] != "error" {
		t.Errorf("checks = %v", resp.Checks)
	}
	if len(resp.Issues) != 1 || resp.Issues[0] != "emails_collection_unavailable" {
		t.Errorf("issues = %v", resp.Issues)
	}
}

func TestHealthHandler_StoreError(t *testing.T) {
	store := &fakeVectorStore{existsErr: errors.New("connection refused")}
	h := NewHealthHandler(store, "documents", "emails")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	h := NewHealthHandler(&fakeVectorStore{}, "documents", "emails")

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
