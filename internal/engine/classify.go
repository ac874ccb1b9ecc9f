package engine

import (
	"regexp"
	"strings"
)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

var (
	expenseCues = []string{
		"spend", "spent", "pay", "paid", "cost", "expense", "money",
		"charge", "charged", "bill", "purchase", "bought", "transaction", "$",
	}
	skillsCues = []string{
		"skill", "experience", "resume", "qualification", "job",
		"programming", "technolog", "proficien",
	}
	vacationCues = []string{
		"vacation", "trip", "travel", "went", "visit", "flight", "flew",
		"hotel", "airline", "destination", "rental car",
	}
	promptEngineeringCues = []string{
		"prompt engineering", "prompt", "llm", "language model", "chatgpt",
	}
)

// ClassifyQuestion derives coarse topic flags and mentioned years from the
// raw question text. Used only to pick a fallback message template.
func ClassifyQuestion(question string) QueryClassification {
	q := strings.ToLower(question)
	return QueryClassification{
		Expense:           containsAny(q, expenseCues),
		Skills:            containsAny(q, skillsCues),
		Vacation:          containsAny(q, vacationCues),
		PromptEngineering: containsAny(q, promptEngineeringCues),
		Years:             yearPattern.FindAllString(question, -1),
	}
}
