package engine

// combineResult carries the merged candidate list, or the explicit
// no-email-evidence state when an email-prioritized query found nothing in
// email. That state must never silently degrade into a document answer.
type combineResult struct {
	passages        []Passage
	noEmailEvidence bool
}

// docBudget limits how much weak supporting document context rides along
// in email-prioritized mode.
const (
	docBudgetRichEmail   = 2 // email evidence is plentiful (3+ passages)
	docBudgetSparseEmail = 5 // email evidence is sparse
)

// combineChunks merges the two channels' passages into one ordered list.
// Documents lead in normal mode: they are the higher-trust, denser-signal
// corpus. In email-prioritized mode emails lead and documents are trimmed
// to a small supporting tail.
func combineChunks(docs, emails []Passage, prioritizeEmails bool) combineResult {
	if !prioritizeEmails {
		merged := make([]Passage, 0, len(docs)+len(emails))
		merged = append(merged, docs...)
		merged = append(merged, emails...)
		return combineResult{passages: merged}
	}

	if len(emails) == 0 {
		return combineResult{noEmailEvidence: true}
	}

	budget := docBudgetSparseEmail
	if len(emails) >= 3 {
		budget = docBudgetRichEmail
	}
	if len(docs) > budget {
		docs = docs[:budget]
	}

	merged := make([]Passage, 0, len(emails)+len(docs))
	merged = append(merged, emails...)
	merged = append(merged, docs...)
	return combineResult{passages: merged}
}
