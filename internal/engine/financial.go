package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// paymentMethods the financial extractor understands, lowercased.
var paymentMethods = []string{"zelle", "venmo", "paypal"}

// financialTriggers mark a question as asking about money moved.
var financialTriggers = []string{"how much", "paid", "pay", "cost", "sent", "spent", "spend", "charged"}

// synthesizeFinancial answers "how much did I pay X" style questions
// directly from a passage that mentions the asked-about entity. The amount
// is taken from that same passage only, never from the concatenated
// context, so amounts from unrelated transactions cannot bleed in. When a
// payment method is named, passages without it are excluded entirely.
// Returns "" when no confident extraction is possible.
func synthesizeFinancial(question string, passages []Passage) string {
	q := strings.ToLower(question)
	if !containsAny(q, financialTriggers) {
		return ""
	}

	var method string
	for _, m := range paymentMethods {
		if strings.Contains(q, m) {
			method = m
			break
		}
	}

	terms := ExtractKeyTerms(question)

	for _, p := range passages {
		lower := strings.ToLower(p.Text)
		if method != "" && !strings.Contains(lower, method) {
			continue
		}

		// First matching entity wins: terms are ordered longest-first, and
		// passages arrive in merged priority order, so the first match is
		// the highest-ranked one rather than a concatenation of unrelated
		// transactions.
		var entity string
		for _, term := range terms {
			lt := strings.ToLower(term)
			if lt == method || currencyPattern.MatchString(term) {
				continue
			}
			// Bare numbers (years, account identifiers) and the question's
			// own money words are never the payee.
			if longNumberPattern.MatchString(term) || isFinancialTrigger(lt) {
				continue
			}
			if strings.Contains(lower, lt) {
				entity = term
				break
			}
		}
		if entity == "" {
			continue
		}

		amount := currencyPattern.FindString(p.Text)
		if amount == "" {
			continue
		}

		if method != "" {
			return fmt.Sprintf("You paid %s to %s via %s.", amount, titleWords(entity), titleWords(method))
		}
		return fmt.Sprintf("You paid %s to %s.", amount, titleWords(entity))
	}
	return ""
}

// isFinancialTrigger reports whether the lowercased term is one of the
// words that marked the question as financial in the first place.
func isFinancialTrigger(term string) bool {
	for _, t := range financialTriggers {
		if term == t {
			return true
		}
	}
	return false
}

// titleWords capitalizes the first letter of each word. Terms already
// carrying capitals (proper names from the extractor) pass through as-is.
func titleWords(s string) string {
	if strings.ToLower(s) != s {
		return s
	}
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
