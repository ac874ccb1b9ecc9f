package storage

import (
	"context"
	"fmt"
	"testing"
)

func TestHistoryRepo_InsertAndListRecent(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	rec := &QueryRecord{
		ID:          "q1",
		UserID:      "u1",
		Question:    "How much did I pay John Smith?",
		Answer:      "You paid $2,500 to John Smith via Zelle.",
		SourcesJSON: `[{"kind":"document","id":"doc-1","label":"Statement"}]`,
		FromCache:   true,
		ElapsedMs:   42,
	}
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	records, err := repo.ListRecent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListRecent() returned %d records, want 1", len(records))
	}

	got := records[0]
	if got.Question != rec.Question || got.Answer != rec.Answer {
		t.Errorf("record = %+v", got)
	}
	if !got.FromCache {
		t.Error("FromCache flag must round-trip")
	}
	if got.ElapsedMs != 42 {
		t.Errorf("ElapsedMs = %d, want 42", got.ElapsedMs)
	}
	if got.SourcesJSON != rec.SourcesJSON {
		t.Errorf("SourcesJSON = %q", got.SourcesJSON)
	}
	if got.AskedAt.IsZero() {
		t.Error("AskedAt must be set by the database")
	}
}

func TestHistoryRepo_ListRecentLimit(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &QueryRecord{
			ID:       fmt.Sprintf("q%d", i),
			UserID:   "u1",
			Question: fmt.Sprintf("question %d", i),
			Answer:   "answer",
		}
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	records, err := repo.ListRecent(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("ListRecent(limit=3) returned %d records", len(records))
	}

	// Zero limit falls back to the default of 20.
	records, err = repo.ListRecent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 5 {
		t.Errorf("ListRecent(limit=0) returned %d records, want all 5", len(records))
	}
}

func TestHistoryRepo_ListRecentScopedToUser(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	_ = repo.Insert(ctx, &QueryRecord{ID: "q1", UserID: "u1", Question: "q", Answer: "a"})
	_ = repo.Insert(ctx, &QueryRecord{ID: "q2", UserID: "u2", Question: "q", Answer: "a"})

	records, err := repo.ListRecent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "q1" {
		t.Errorf("ListRecent(u1) = %+v", records)
	}
}
