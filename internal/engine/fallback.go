package engine

import (
	"context"
	"fmt"
	"strings"
)

// Document categories the suggestion clause can point users at.
const (
	categoryFinancial = "financial"
	categoryResume    = "resume"
	categoryTravel    = "travel"
	categoryNotes     = "notes"
)

// topicSuggestions maps classification topics to the document category that
// would help answer them, in priority order.
var topicSuggestions = []struct {
	matches  func(QueryClassification) bool
	category string
	label    string
}{
	{func(c QueryClassification) bool { return c.Expense }, categoryFinancial, "bank statements or receipts"},
	{func(c QueryClassification) bool { return c.Vacation }, categoryTravel, "travel itineraries or booking confirmations"},
	{func(c QueryClassification) bool { return c.Skills }, categoryResume, "a resume or CV"},
	{func(c QueryClassification) bool { return c.PromptEngineering }, categoryNotes, "your prompt engineering notes"},
}

// noEvidenceMessage produces the contextual "nothing found" message when
// retrieval yielded no usable passages, tailored to the kind of question
// and to what the user has actually uploaded.
func (e *queryEngine) noEvidenceMessage(ctx context.Context, userID, question string) string {
	c := ClassifyQuestion(question)

	categories, err := e.ownership.ListDocumentCategories(ctx, userID)
	if err != nil {
		e.getLogger(ctx).WarnContext(ctx, "failed to list document categories", "user_id", userID, "error", err)
		categories = nil
	}
	have := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		have[strings.ToLower(cat)] = struct{}{}
	}

	yearClause := ""
	if len(c.Years) > 0 {
		yearClause = " for " + strings.Join(c.Years, " or ")
	}

	var msg string
	switch {
	case c.Expense && c.Vacation:
		msg = fmt.Sprintf("I couldn't find any travel expense information%s in your documents or emails.", yearClause)
	case c.Expense:
		msg = fmt.Sprintf("I couldn't find any payment or expense information%s matching your question.", yearClause)
	case c.Vacation:
		msg = fmt.Sprintf("I couldn't find any trip or travel records%s in your documents or emails.", yearClause)
	case c.Skills:
		msg = "I couldn't find anything about your skills or work experience in your documents."
	case c.PromptEngineering:
		msg = "I couldn't find any prompt engineering material in your documents."
	default:
		msg = "I couldn't find anything in your documents or emails that answers that."
	}

	for _, suggestion := range topicSuggestions {
		if !suggestion.matches(c) {
			continue
		}
		if _, uploaded := have[suggestion.category]; uploaded {
			msg += fmt.Sprintf(" I did check your uploaded %s documents, but nothing matched.", suggestion.category)
		} else {
			msg += fmt.Sprintf(" Uploading %s would help me answer questions like this.", suggestion.label)
		}
		break
	}
	return msg
}

// noEmailEvidenceMessage is the distinct state for an email-prioritized
// query that found nothing in email. The user asked for email specifically,
// so a document-derived answer must never be substituted silently.
func noEmailEvidenceMessage() string {
	return "I couldn't find anything in your emails about that. Want me to check your uploaded documents instead?"
}

// noDocumentsMessage short-circuits document-only plans for users with no
// uploads at all.
func noDocumentsMessage() string {
	return "You haven't uploaded any documents yet. Upload a PDF and I'll be able to answer questions about it."
}

// technicalDifficultyMessage recovers generation failures without surfacing
// raw internal errors.
func technicalDifficultyMessage() string {
	return "I'm having technical difficulty putting an answer together right now. Please try again in a moment."
}
