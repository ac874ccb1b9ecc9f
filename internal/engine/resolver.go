package engine

import (
	"context"
	"fmt"
	"strings"
)

// emailPriorityPhrases is the closed list of cues meaning "look in my
// mailbox". A match excludes documents from the pass entirely rather than
// merely deprioritizing them: the user asked for email, so the answer must
// come from email or be an explicit "nothing in email".
var emailPriorityPhrases = []string{
	"check emails",
	"check email",
	"check my email",
	"search my email",
	"search emails",
	"find email",
	"find an email",
	"in my emails",
	"in my email",
	"from my emails",
	"did i get an email",
	"did i receive an email",
	"look in my email",
}

// resolveSources maps the requested scope plus natural-language cues in the
// question into a concrete search plan. Explicit selections are validated
// against the ownership store and win over phrase cues.
func (e *queryEngine) resolveSources(ctx context.Context, userID string, scope SearchScope, question string) (SearchPlan, error) {
	switch scope.Type {
	case ScopeDocument:
		owned, err := e.ownership.DocumentOwnedBy(ctx, scope.ID, userID)
		if err != nil {
			return SearchPlan{}, fmt.Errorf("validate document ownership: %w", err)
		}
		if !owned {
			return SearchPlan{}, &InvalidSourceError{Scope: scope}
		}
		// Legacy single-document mode: documents only, no email channel.
		return SearchPlan{
			SearchDocuments: true,
			DocumentID:      scope.ID,
		}, nil

	case ScopeEmailCategory:
		category := scope.ID
		if category != "" && category != EmailCategoryAll {
			exists, err := e.ownership.EmailCategoryExists(ctx, userID, category)
			if err != nil {
				return SearchPlan{}, fmt.Errorf("validate email category: %w", err)
			}
			if !exists {
				return SearchPlan{}, &InvalidSourceError{Scope: scope}
			}
		}
		return SearchPlan{
			SearchEmails:     true,
			EmailCategory:    category,
			PrioritizeEmails: true,
		}, nil

	default:
		plan := SearchPlan{SearchDocuments: true, SearchEmails: true}
		q := strings.ToLower(question)
		for _, phrase := range emailPriorityPhrases {
			if strings.Contains(q, phrase) {
				plan.PrioritizeEmails = true
				plan.SearchDocuments = false
				break
			}
		}
		return plan, nil
	}
}

// userHasDocuments answers the "any documents at all?" question through the
// TTL existence cache, recomputing on miss.
func (e *queryEngine) userHasDocuments(ctx context.Context, userID string) bool {
	if has, ok := e.docsCache.get(userID); ok {
		return has
	}
	count, err := e.ownership.CountDocuments(ctx, userID)
	if err != nil {
		// Counting failed; assume documents exist so retrieval is attempted.
		e.getLogger(ctx).WarnContext(ctx, "failed to count documents", "user_id", userID, "error", err)
		return true
	}
	has := count > 0
	e.docsCache.put(userID, has)
	return has
}
