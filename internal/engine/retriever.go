package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"askmydocs/internal/vectorstore"
)

// topKPerChannel bounds how many passages each retrieval channel returns.
const topKPerChannel = 10

// retrieve issues similarity searches against the document and email
// corpora. The two channels are independent and run concurrently; a failed
// channel degrades to empty with a log entry. Only when every searched
// channel fails is the error returned to the caller.
func (e *queryEngine) retrieve(ctx context.Context, plan SearchPlan, userID, question string) (docs, emails []Passage, err error) {
	logger := e.getLogger(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil || len(embeddings) == 0 {
		// The embedding primitive failing means no passages from either
		// channel; the fallback messenger handles the empty result.
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return nil, nil, nil
	}
	queryVector := embeddings[0]

	var wg sync.WaitGroup
	var docErr, emailErr error

	if plan.SearchDocuments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, docErr = e.searchDocuments(ctx, queryVector, userID, plan.DocumentID)
		}()
	}
	if plan.SearchEmails {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emails, emailErr = e.searchEmails(ctx, queryVector, userID, plan.EmailCategory)
		}()
	}
	wg.Wait()

	if docErr != nil {
		logger.ErrorContext(ctx, "document channel failed", "error", docErr)
	}
	if emailErr != nil {
		logger.ErrorContext(ctx, "email channel failed", "error", emailErr)
	}

	var planned, failed int
	if plan.SearchDocuments {
		planned++
		if docErr != nil {
			failed++
		}
	}
	if plan.SearchEmails {
		planned++
		if emailErr != nil {
			failed++
		}
	}
	if planned > 0 && failed == planned {
		return nil, nil, fmt.Errorf("%w: every searched channel failed", ErrRetrievalUnavailable)
	}
	return docs, emails, nil
}

// searchDocuments queries the document collection, scoped to the user and
// optionally to one document.
func (e *queryEngine) searchDocuments(ctx context.Context, query []float32, userID, documentID string) ([]Passage, error) {
	logger := e.getLogger(ctx)

	filters := map[string]any{"user_id": userID}
	if documentID != "" {
		filters["document_id"] = documentID
	}

	results, err := e.vectors.Search(ctx, e.docCollection, query, topKPerChannel, filters)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, r := range results {
		p, ok := documentPassage(r)
		if !ok {
			// A malformed result never fails the whole query.
			logger.WarnContext(ctx, "skipping malformed document result", "point_id", r.PointID)
			continue
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// searchEmails queries the email collection, scoped to the user and
// optionally filtered to one category.
func (e *queryEngine) searchEmails(ctx context.Context, query []float32, userID, category string) ([]Passage, error) {
	logger := e.getLogger(ctx)

	filters := map[string]any{"user_id": userID}
	if category != "" && category != EmailCategoryAll {
		filters["category"] = category
	}

	results, err := e.vectors.Search(ctx, e.emailCollection, query, topKPerChannel, filters)
	if err != nil {
		return nil, fmt.Errorf("search emails: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, r := range results {
		p, ok := emailPassage(r)
		if !ok {
			logger.WarnContext(ctx, "skipping malformed email result", "point_id", r.PointID)
			continue
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// documentPassage converts one document search result into a passage.
// Results without text or a stable source identity are rejected.
func documentPassage(r vectorstore.SearchResult) (Passage, bool) {
	text := metaString(r.Meta, "text")
	if text == "" {
		return Passage{}, false
	}

	identity := metaString(r.Meta, "document_id")
	if identity == "" {
		// Filename fallback keeps older index entries citable.
		identity = metaString(r.Meta, "filename")
	}
	if identity == "" {
		return Passage{}, false
	}

	label := metaString(r.Meta, "title")
	if label == "" {
		label = metaString(r.Meta, "filename")
	}
	if label == "" {
		label = identity
	}

	return Passage{
		Text:     text,
		Score:    r.Score,
		Kind:     SourceDocument,
		SourceID: identity,
		Label:    label,
	}, true
}

// emailPassage converts one email search result into a passage, prefixing
// the text with its provenance so downstream stages can tell email content
// apart from document content.
func emailPassage(r vectorstore.SearchResult) (Passage, bool) {
	body := metaString(r.Meta, "text")
	emailID := metaString(r.Meta, "email_id")
	if body == "" || emailID == "" {
		return Passage{}, false
	}

	sender := metaString(r.Meta, "sender")
	subject := metaString(r.Meta, "subject")

	label := subject
	if label == "" {
		label = "(no subject)"
	}
	if sender != "" {
		label = fmt.Sprintf("%s (from %s)", label, sender)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "[EMAIL from %s] Subject: %s\nContent: %s", sender, subject, body)

	return Passage{
		Text:     text.String(),
		Score:    r.Score,
		Kind:     SourceEmail,
		SourceID: emailID,
		Label:    label,
	}, true
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return strings.TrimSpace(s)
}
