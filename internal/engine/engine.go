package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"askmydocs/internal/contextutil"
	"askmydocs/internal/llm"
)

const (
	// maxContextChars bounds how much passage text rides along in the
	// generation prompt. Selection is first-of-list biased: the combiner
	// already ordered passages by retrieval-then-priority relevance.
	maxContextChars = 8000

	defaultAnswerCacheTTL = 5 * time.Minute
	defaultDocsCacheTTL   = 2 * time.Minute
)

// queryEngine implements Engine. All collaborators are injected at
// construction so tests can substitute them.
type queryEngine struct {
	embedder        Embedder
	vectors         Searcher
	docCollection   string
	emailCollection string
	ownership       OwnershipStore
	generator       Generator
	answers         *answerCache
	docsCache       *docsCache
	logger          *slog.Logger
}

// NewEngine creates a query-answering engine over the two corpora.
func NewEngine(
	embedder Embedder,
	vectors Searcher,
	docCollection string,
	emailCollection string,
	ownership OwnershipStore,
	generator Generator,
) Engine {
	return &queryEngine{
		embedder:        embedder,
		vectors:         vectors,
		docCollection:   docCollection,
		emailCollection: emailCollection,
		ownership:       ownership,
		generator:       generator,
		answers:         newAnswerCache(defaultAnswerCacheTTL),
		docsCache:       newDocsCache(defaultDocsCacheTTL),
		logger:          slog.Default(),
	}
}

func (e *queryEngine) getLogger(ctx context.Context) *slog.Logger {
	if l := contextutil.LoggerFromContext(ctx); l != nil {
		return l
	}
	return e.logger
}

// AnswerQuestion runs the full pipeline for one question: resolve sources,
// retrieve from both channels, combine, attribute citations, synthesize
// deterministically when possible, otherwise generate and validate.
func (e *queryEngine) AnswerQuestion(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	start := time.Now()
	logger := e.getLogger(ctx)

	if strings.TrimSpace(req.Question) == "" {
		return AnswerResponse{}, fmt.Errorf("question must not be empty")
	}
	if req.Scope.Type == "" {
		req.Scope.Type = ScopeAll
	}

	logger.InfoContext(ctx, "query started",
		"question", req.Question,
		"user_id", req.UserID,
		"scope_type", req.Scope.Type,
		"scope_id", req.Scope.ID,
	)

	cacheKey := answerCacheKey(req)
	if cached, ok := e.answers.get(cacheKey); ok {
		cached.FromCache = true
		cached.ElapsedMs = time.Since(start).Milliseconds()
		logger.InfoContext(ctx, "answer served from cache")
		return cached, nil
	}

	plan, err := e.resolveSources(ctx, req.UserID, req.Scope, req.Question)
	if err != nil {
		return AnswerResponse{}, err
	}
	logger.DebugContext(ctx, "search plan resolved",
		"documents", plan.SearchDocuments,
		"emails", plan.SearchEmails,
		"prioritize_emails", plan.PrioritizeEmails,
		"document_id", plan.DocumentID,
		"email_category", plan.EmailCategory,
	)

	if plan.SearchDocuments && !plan.SearchEmails && !e.userHasDocuments(ctx, req.UserID) {
		return e.finish(cacheKey, noDocumentsMessage(), nil, start), nil
	}

	docs, emails, err := e.retrieve(ctx, plan, req.UserID, req.Question)
	if err != nil {
		return AnswerResponse{}, err
	}
	logger.InfoContext(ctx, "retrieval completed",
		"document_passages", len(docs),
		"email_passages", len(emails),
	)

	combined := combineChunks(docs, emails, plan.PrioritizeEmails)
	if combined.noEmailEvidence {
		// The user asked for email. No document fallback, even if the
		// document channel has a plausible answer.
		return e.finish(cacheKey, noEmailEvidenceMessage(), nil, start), nil
	}
	if len(combined.passages) == 0 {
		return e.finish(cacheKey, e.noEvidenceMessage(ctx, req.UserID, req.Question), nil, start), nil
	}

	citations := selectCitations(req.Question, combined.passages)

	answer := e.synthesize(ctx, req.Question, combined.passages)
	if answer == "" {
		answer = e.generateValidated(ctx, req.Question, combined.passages)
	}

	return e.finish(cacheKey, answer, citations, start), nil
}

// synthesize tries the deterministic extractors in priority order; the
// first non-empty result wins and generation is bypassed entirely.
func (e *queryEngine) synthesize(ctx context.Context, question string, passages []Passage) string {
	logger := e.getLogger(ctx)

	if a := synthesizeFinancial(question, passages); a != "" {
		logger.InfoContext(ctx, "answered by financial extractor")
		return a
	}
	if a := synthesizeFromEmails(question, passages); a != "" {
		logger.InfoContext(ctx, "answered by email extractor")
		return a
	}
	if a := synthesizeTravel(question, passages); a != "" {
		logger.InfoContext(ctx, "answered by travel extractor")
		return a
	}
	return ""
}

// generateValidated invokes the language model with the merged passages,
// then validates the result against the same passages. Invalid answers are
// replaced by context-grounded safe extraction; the generator is never
// re-prompted. Generation failures degrade to a templated message.
func (e *queryEngine) generateValidated(ctx context.Context, question string, passages []Passage) string {
	logger := e.getLogger(ctx)

	texts := make([]string, 0, len(passages))
	var contextBuilder strings.Builder
	contextBuilder.WriteString("--- Context from your documents and emails ---\n\n")
	used := 0
	for _, p := range passages {
		if used+len(p.Text) > maxContextChars {
			break
		}
		used += len(p.Text)
		texts = append(texts, p.Text)
		contextBuilder.WriteString(p.Text)
		contextBuilder.WriteString("\n\n")
	}
	contextBuilder.WriteString("--- End context ---")

	systemPrompt := "You are a personal assistant that answers questions using only the provided " +
		"context from the user's documents and emails. If the context does not contain the answer, say so. " +
		"Never invent amounts, dates, or names."
	userMessage := fmt.Sprintf("%s\n\n%s", question, contextBuilder.String())

	generated, err := e.generator.ChatWithMessages(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}, llm.ChatParams{Temperature: 0.2})
	if err != nil {
		logger.ErrorContext(ctx, "generation failed", "error", err)
		return technicalDifficultyMessage()
	}

	vr := ValidateResponse(generated, question, texts)
	if vr.IsValid {
		return generated
	}
	logger.WarnContext(ctx, "generated answer failed validation",
		"confidence", vr.Confidence,
		"issues", vr.Issues,
		"suggested_corrections", vr.SuggestedCorrections,
	)
	return SafeAnswer(question, texts)
}

func (e *queryEngine) finish(cacheKey, answer string, citations []Citation, start time.Time) AnswerResponse {
	if citations == nil {
		citations = []Citation{}
	}
	resp := AnswerResponse{
		Answer:    answer,
		Sources:   citations,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	e.answers.put(cacheKey, resp)
	return resp
}
