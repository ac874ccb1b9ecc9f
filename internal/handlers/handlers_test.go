package handlers

import (
	"context"

	"askmydocs/internal/storage"
	"askmydocs/internal/vectorstore"
)

// Shared fakes for handler tests.

type fakeDocStore struct {
	docs    []storage.Document
	listErr error
}

func (f *fakeDocStore) Insert(context.Context, *storage.Document) error { return nil }

func (f *fakeDocStore) GetByID(context.Context, string) (*storage.Document, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeDocStore) OwnedBy(context.Context, string, string) (bool, error) { return false, nil }

func (f *fakeDocStore) CountByUser(context.Context, string) (int, error) { return len(f.docs), nil }

func (f *fakeDocStore) ListByUser(context.Context, string) ([]storage.Document, error) {
	return f.docs, f.listErr
}

func (f *fakeDocStore) ListCategories(context.Context, string) ([]string, error) { return nil, nil }

type fakeHistoryStore struct {
	records   []storage.QueryRecord
	listErr   error
	insertErr error
	inserted  []*storage.QueryRecord
}

func (f *fakeHistoryStore) Insert(_ context.Context, rec *storage.QueryRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeHistoryStore) ListRecent(context.Context, string, int) ([]storage.QueryRecord, error) {
	return f.records, f.listErr
}

type fakeVectorStore struct {
	collections map[string]bool
	existsErr   error
	upsertErr   error
	points      []vectorstore.Point
}

func (f *fakeVectorStore) Upsert(_ context.Context, _ string, points []vectorstore.Point) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeVectorStore) Search(context.Context, string, []float32, int, map[string]any) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (f *fakeVectorStore) Delete(context.Context, string, []string) error { return nil }

func (f *fakeVectorStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.collections[collection], nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{0.1, 0.2}
	}
	return vecs, nil
}
