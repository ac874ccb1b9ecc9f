package reindex

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"askmydocs/internal/mailbus"
	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

type fakeBus struct {
	handlers map[string]func(subject string, data []byte)
}

func (b *fakeBus) Subscribe(subject string, handler func(subject string, data []byte)) error {
	if b.handlers == nil {
		b.handlers = make(map[string]func(string, []byte))
	}
	b.handlers[subject] = handler
	return nil
}

func (b *fakeBus) deliver(t *testing.T, subject string, event any) {
	t.Helper()
	handler, ok := b.handlers[subject]
	if !ok {
		t.Fatalf("no handler registered for %q", subject)
	}
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	handler(subject, data)
}

type fakeEmbedder struct {
	mu      sync.Mutex
	err     error
	failOn  string        // embedding fails for texts containing this
	stallOn string        // embedding blocks on stall for texts containing this
	stall   chan struct{} // closed by the test to release stalled embeds
	texts   []string
}

func (e *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.texts = append(e.texts, texts...)
	e.mu.Unlock()
	if e.stallOn != "" && len(texts) == 1 && strings.Contains(texts[0], e.stallOn) {
		<-e.stall
	}
	if e.failOn != "" && len(texts) == 1 && strings.Contains(texts[0], e.failOn) {
		return nil, errors.New("embed failed")
	}
	if e.err != nil {
		return nil, e.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{0.1, 0.2, 0.3}
	}
	return vecs, nil
}

type fakeVectorStore struct {
	mu        sync.Mutex
	upsertErr error
	points    []vectorstore.Point
	upserted  chan vectorstore.Point // receives each stored point when set
}

func (s *fakeVectorStore) Upsert(_ context.Context, _ string, points []vectorstore.Point) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	s.points = append(s.points, points...)
	s.mu.Unlock()
	if s.upserted != nil {
		for _, p := range points {
			s.upserted <- p
		}
	}
	return nil
}

func (s *fakeVectorStore) Search(context.Context, string, []float32, int, map[string]any) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (s *fakeVectorStore) Delete(context.Context, string, []string) error { return nil }

func (s *fakeVectorStore) CollectionExists(context.Context, string) (bool, error) {
	return true, nil
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	incErr     error
	increments []string
}

func (c *fakeCategoryStore) Exists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (c *fakeCategoryStore) ListByUser(context.Context, string) ([]storage.EmailCategory, error) {
	return nil, nil
}

func (c *fakeCategoryStore) Increment(_ context.Context, userID, name string) error {
	c.mu.Lock()
	c.increments = append(c.increments, userID+"/"+name)
	c.mu.Unlock()
	return c.incErr
}

// waitForPoint blocks until the pool indexes an email or the test deadline
// is clearly blown.
func waitForPoint(t *testing.T, upserted <-chan vectorstore.Point) vectorstore.Point {
	t.Helper()
	select {
	case p := <-upserted:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an email to be indexed")
		return vectorstore.Point{}
	}
}

func testEvent() mailbus.EmailSyncedEvent {
	return mailbus.EmailSyncedEvent{
		UserID:  "u1",
		EmailID: "e1",
		Sender:  "info@netflix.com",
		Subject: "Your receipt from Netflix",
		Body:    "Your subscription renewed for $15.99.",
		Date:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestIndexEmail(t *testing.T) {
	embedder := &fakeEmbedder{}
	vectors := &fakeVectorStore{}
	cats := &fakeCategoryStore{}
	w := NewWorker(&fakeBus{}, embedder, vectors, "emails", cats)

	if err := w.IndexEmail(context.Background(), testEvent()); err != nil {
		t.Fatalf("IndexEmail() error = %v", err)
	}

	if len(vectors.points) != 1 {
		t.Fatalf("upserted %d points, want 1", len(vectors.points))
	}
	meta := vectors.points[0].Meta
	if meta["user_id"] != "u1" || meta["email_id"] != "e1" {
		t.Errorf("identity payload = %v/%v", meta["user_id"], meta["email_id"])
	}
	if meta["category"] != CategoryReceipt {
		t.Errorf("category = %v, want %s", meta["category"], CategoryReceipt)
	}
	if meta["text"] != "Your subscription renewed for $15.99." {
		t.Errorf("text payload = %v", meta["text"])
	}
	if meta["date"] != "2024-03-15T10:00:00Z" {
		t.Errorf("date payload = %v", meta["date"])
	}

	if len(embedder.texts) != 1 || embedder.texts[0] != "Your receipt from Netflix\nYour subscription renewed for $15.99." {
		t.Errorf("embedded text = %v", embedder.texts)
	}
	if len(cats.increments) != 1 || cats.increments[0] != "u1/receipts" {
		t.Errorf("category increments = %v", cats.increments)
	}
}

func TestIndexEmailMissingIdentity(t *testing.T) {
	w := NewWorker(&fakeBus{}, &fakeEmbedder{}, &fakeVectorStore{}, "emails", &fakeCategoryStore{})

	event := testEvent()
	event.UserID = ""
	if err := w.IndexEmail(context.Background(), event); err == nil {
		t.Error("missing user_id must be an error")
	}

	event = testEvent()
	event.EmailID = ""
	if err := w.IndexEmail(context.Background(), event); err == nil {
		t.Error("missing email_id must be an error")
	}
}

func TestIndexEmailSkipsEmpty(t *testing.T) {
	vectors := &fakeVectorStore{}
	w := NewWorker(&fakeBus{}, &fakeEmbedder{}, vectors, "emails", &fakeCategoryStore{})

	event := testEvent()
	event.Subject = ""
	event.Body = ""
	if err := w.IndexEmail(context.Background(), event); err != nil {
		t.Fatalf("empty email must be skipped, not failed: %v", err)
	}
	if len(vectors.points) != 0 {
		t.Error("empty email must not be indexed")
	}
}

func TestIndexEmailEmbedFailure(t *testing.T) {
	vectors := &fakeVectorStore{}
	w := NewWorker(&fakeBus{}, &fakeEmbedder{err: errors.New("backend down")}, vectors, "emails", &fakeCategoryStore{})

	if err := w.IndexEmail(context.Background(), testEvent()); err == nil {
		t.Fatal("embedding failure must surface")
	}
	if len(vectors.points) != 0 {
		t.Error("nothing must be upserted when embedding fails")
	}
}

func TestIndexEmailTallyFailureIsBestEffort(t *testing.T) {
	vectors := &fakeVectorStore{}
	w := NewWorker(&fakeBus{}, &fakeEmbedder{}, vectors, "emails", &fakeCategoryStore{incErr: errors.New("db down")})

	if err := w.IndexEmail(context.Background(), testEvent()); err != nil {
		t.Fatalf("tally failure must not fail indexing: %v", err)
	}
	if len(vectors.points) != 1 {
		t.Error("vector must be indexed despite tally failure")
	}
}

func TestStartIndexesDeliveredEvents(t *testing.T) {
	bus := &fakeBus{}
	vectors := &fakeVectorStore{upserted: make(chan vectorstore.Point, 4)}
	w := NewWorker(bus, &fakeEmbedder{}, vectors, "emails", &fakeCategoryStore{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	bus.deliver(t, mailbus.SubjectEmailSynced, testEvent())
	if p := waitForPoint(t, vectors.upserted); p.Meta["email_id"] != "e1" {
		t.Fatalf("indexed email_id = %v, want e1", p.Meta["email_id"])
	}

	// Malformed payloads are dropped without killing the subscription.
	bus.handlers[mailbus.SubjectEmailSynced](mailbus.SubjectEmailSynced, []byte("{not json"))
	second := testEvent()
	second.EmailID = "e2"
	bus.deliver(t, mailbus.SubjectEmailSynced, second)
	if p := waitForPoint(t, vectors.upserted); p.Meta["email_id"] != "e2" {
		t.Errorf("indexed email_id = %v, want e2", p.Meta["email_id"])
	}
}

func TestStartPoolSurvivesFailingEvent(t *testing.T) {
	bus := &fakeBus{}
	embedder := &fakeEmbedder{failOn: "corrupt"}
	vectors := &fakeVectorStore{upserted: make(chan vectorstore.Point, 4)}
	w := NewWorker(bus, embedder, vectors, "emails", &fakeCategoryStore{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	bad := testEvent()
	bad.EmailID = "bad"
	bad.Subject = "corrupt attachment"
	bus.deliver(t, mailbus.SubjectEmailSynced, bad)

	good := testEvent()
	good.EmailID = "good"
	bus.deliver(t, mailbus.SubjectEmailSynced, good)

	if p := waitForPoint(t, vectors.upserted); p.Meta["email_id"] != "good" {
		t.Errorf("indexed email_id = %v, want good", p.Meta["email_id"])
	}
}

func TestStartPoolKeepsDrainingPastStalledEvent(t *testing.T) {
	bus := &fakeBus{}
	stall := make(chan struct{})
	embedder := &fakeEmbedder{stallOn: "quarterly", stall: stall}
	vectors := &fakeVectorStore{upserted: make(chan vectorstore.Point, 4)}
	w := NewWorker(bus, embedder, vectors, "emails", &fakeCategoryStore{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	slow := testEvent()
	slow.EmailID = "slow"
	slow.Subject = "quarterly statement"
	bus.deliver(t, mailbus.SubjectEmailSynced, slow)

	fast := testEvent()
	fast.EmailID = "fast"
	bus.deliver(t, mailbus.SubjectEmailSynced, fast)

	// A sibling goroutine indexes the second event while the first is
	// still blocked inside the embedder.
	if p := waitForPoint(t, vectors.upserted); p.Meta["email_id"] != "fast" {
		t.Errorf("indexed email_id = %v, want fast", p.Meta["email_id"])
	}

	close(stall)
	if p := waitForPoint(t, vectors.upserted); p.Meta["email_id"] != "slow" {
		t.Errorf("indexed email_id = %v, want slow", p.Meta["email_id"])
	}
}
