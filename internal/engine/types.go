package engine

// SourceKind identifies which corpus a passage or citation came from.
type SourceKind string

const (
	SourceDocument SourceKind = "document"
	SourceEmail    SourceKind = "email"
)

// ScopeType is the closed set of search scopes a caller may request.
type ScopeType string

const (
	// ScopeAll searches both corpora.
	ScopeAll ScopeType = "all"
	// ScopeDocument restricts the search to a single owned document.
	ScopeDocument ScopeType = "document"
	// ScopeEmailCategory restricts the search to one email category.
	// The sentinel id "all" means every email.
	ScopeEmailCategory ScopeType = "email_category"
)

// EmailCategoryAll is the sentinel category id meaning "all emails".
const EmailCategoryAll = "all"

// SearchScope is the caller's requested scope for one query.
type SearchScope struct {
	Type ScopeType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// Passage is one retrieved unit of context. Email passages carry a
// provenance prefix in Text ("[EMAIL from <sender>] Subject: <subject>").
type Passage struct {
	Text string
	// Score is the similarity score from the retrieval primitive. Scores
	// are not comparable across channels, so ordering decisions happen
	// per channel before merging.
	Score float32
	Kind  SourceKind
	// SourceID is the stable identity used for citation dedup: the
	// document id (or filename fallback) for documents, the email id
	// for emails.
	SourceID string
	// Label is the human-readable citation label.
	Label string
}

// SearchPlan is the Source Resolver's output: which channels to search
// and how to prioritize them.
type SearchPlan struct {
	SearchDocuments bool
	SearchEmails    bool
	// DocumentID, when set, pins the search to a single document.
	// It implies SearchDocuments and excludes SearchEmails.
	DocumentID string
	// EmailCategory filters the email channel. Empty or "all" means no filter.
	EmailCategory string
	// PrioritizeEmails may only be true when SearchEmails is true.
	PrioritizeEmails bool
}

// Citation is one entry in the answer's cited-sources list, unique by
// (Kind, ID) within one answer.
type Citation struct {
	Kind  SourceKind `json:"kind"`
	ID    string     `json:"id"`
	Label string     `json:"label"`
}

// ValidationResult is the Response Validator's verdict on one generated
// answer. It is created per answer, consumed immediately, never persisted.
type ValidationResult struct {
	IsValid              bool
	Confidence           float64
	Issues               []string
	SuggestedCorrections []string
}

// QueryClassification holds coarse topic flags derived from the raw
// question text. It only selects a fallback message template; it never
// gates retrieval.
type QueryClassification struct {
	Expense           bool
	Skills            bool
	Vacation          bool
	PromptEngineering bool
	// Years holds every 4-digit year mentioned in the question.
	Years []string
}

// AnswerRequest is one query-answering invocation.
type AnswerRequest struct {
	Question string
	UserID   string
	Scope    SearchScope
}

// AnswerResponse is the engine's final output for one question.
type AnswerResponse struct {
	Answer    string
	Sources   []Citation
	FromCache bool
	ElapsedMs int64
}
