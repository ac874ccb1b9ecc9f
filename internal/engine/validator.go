package engine

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// fuzzyMatchThreshold is the minimum string similarity for a "soft"
	// entity match against context words.
	fuzzyMatchThreshold = 0.8
	// validConfidenceThreshold is the minimum mean confidence for a
	// generated answer to pass validation.
	validConfidenceThreshold = 0.7
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
}

// answerEntityStoplist keeps common sentence-leading capitalized words from
// being treated as named entities in generated answers.
var answerEntityStoplist = map[string]struct{}{
	"the": {}, "this": {}, "that": {}, "your": {}, "you": {}, "yes": {},
	"based": {}, "according": {}, "here": {}, "there": {}, "however": {},
	"unfortunately": {}, "total": {}, "subject": {}, "content": {},
}

// singleCapitalizedWord matches standalone capitalized tokens of 3+ letters.
var singleCapitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)

// ValidateResponse checks a generated answer's entities, amounts, and dates
// against the retrieved context. Named entities may match fuzzily; currency
// amounts and date literals must match the context exactly, and any
// answer-side literal absent from the context is an issue regardless of
// confidence elsewhere.
func ValidateResponse(answer, question string, contextTexts []string) ValidationResult {
	joined := strings.ToLower(strings.Join(contextTexts, "\n"))
	contextWords := tokenizeWords(joined)

	result := ValidationResult{
		Issues:               []string{},
		SuggestedCorrections: []string{},
	}

	var confidences []float64

	for _, entity := range answerEntities(answer) {
		lower := strings.ToLower(entity)
		if strings.Contains(joined, lower) {
			confidences = append(confidences, 1.0)
			continue
		}
		best, candidate := bestWordSimilarity(lower, contextWords)
		confidences = append(confidences, best)
		if best >= fuzzyMatchThreshold {
			result.SuggestedCorrections = append(result.SuggestedCorrections,
				fmt.Sprintf("%s -> %s", entity, candidate))
			continue
		}
		result.Issues = append(result.Issues,
			fmt.Sprintf("entity %q not found in context", entity))
	}

	// Literal cross-checks: no fuzzy matching for amounts or dates.
	for _, amount := range currencyPattern.FindAllString(answer, -1) {
		if strings.Contains(joined, strings.ToLower(amount)) {
			confidences = append(confidences, 1.0)
			continue
		}
		confidences = append(confidences, 0.0)
		result.Issues = append(result.Issues,
			fmt.Sprintf("amount %q not found in context", amount))
	}
	for _, date := range answerDates(answer) {
		if strings.Contains(joined, strings.ToLower(date)) {
			confidences = append(confidences, 1.0)
			continue
		}
		confidences = append(confidences, 0.0)
		result.Issues = append(result.Issues,
			fmt.Sprintf("date %q not found in context", date))
	}

	if len(confidences) == 0 {
		// Nothing verifiable in the answer; accept it as-is.
		result.Confidence = 1.0
		result.IsValid = true
		return result
	}

	var sum float64
	for _, c := range confidences {
		sum += c
	}
	result.Confidence = sum / float64(len(confidences))
	result.IsValid = result.Confidence >= validConfidenceThreshold && len(result.Issues) == 0
	return result
}

// SafeAnswer builds a context-grounded replacement for an invalid generated
// answer: only amounts, dates and terms literally present in the context are
// allowed into it. Generation failures degrade to extraction, never to
// unvalidated text. Returns a generic apology when nothing is extractable.
func SafeAnswer(question string, contextTexts []string) string {
	joined := strings.Join(contextTexts, "\n")

	amounts := dedupeStrings(currencyPattern.FindAllString(joined, -1), 3)
	dates := dedupeStrings(allDates(joined), 2)

	var grounded []string
	lowerJoined := strings.ToLower(joined)
	for _, term := range ExtractKeyTerms(question) {
		if currencyPattern.MatchString(term) {
			continue
		}
		if strings.Contains(lowerJoined, strings.ToLower(term)) {
			grounded = append(grounded, titleWords(term))
		}
		if len(grounded) == 2 {
			break
		}
	}

	if len(amounts) == 0 && len(dates) == 0 {
		return "I found related information in your records but couldn't verify a precise answer to that question."
	}

	var b strings.Builder
	b.WriteString("I couldn't fully verify a generated answer, but here is what your records confirm")
	if len(grounded) > 0 {
		fmt.Fprintf(&b, " about %s", strings.Join(grounded, " and "))
	}
	b.WriteString(":")
	if len(amounts) > 0 {
		fmt.Fprintf(&b, " amounts %s.", strings.Join(amounts, ", "))
	}
	if len(dates) > 0 {
		fmt.Fprintf(&b, " Dates mentioned: %s.", strings.Join(dates, ", "))
	}
	return b.String()
}

// answerEntities extracts the verifiable named entities from a generated
// answer: capitalized name sequences, standalone capitalized words, and
// payment method names.
func answerEntities(answer string) []string {
	var entities []string
	seen := make(map[string]struct{})
	add := func(e string) {
		key := strings.ToLower(e)
		if _, stop := answerEntityStoplist[key]; stop {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		entities = append(entities, e)
	}

	for _, m := range properNamePattern.FindAllString(answer, -1) {
		if _, stop := properNameStoplist[strings.ToLower(m)]; stop {
			continue
		}
		add(m)
	}
	for _, m := range singleCapitalizedWord.FindAllString(answer, -1) {
		add(m)
	}
	lower := strings.ToLower(answer)
	for _, m := range paymentMethods {
		if strings.Contains(lower, m) {
			add(m)
		}
	}
	return entities
}

func answerDates(answer string) []string {
	return allDates(answer)
}

func allDates(text string) []string {
	var dates []string
	for _, p := range datePatterns {
		dates = append(dates, p.FindAllString(text, -1)...)
	}
	return dates
}

// bestWordSimilarity returns the highest similarity between target and any
// context word, along with the matching word.
func bestWordSimilarity(target string, words []string) (float64, string) {
	var best float64
	var candidate string
	for _, w := range words {
		s := similarity(target, w)
		if s > best {
			best = s
			candidate = w
		}
	}
	return best, candidate
}

// similarity is a normalized Levenshtein ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func tokenizeWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}
	return words
}

func dedupeStrings(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
