package engine

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// currencyPattern matches amounts like $15.99, $4,500 or $1,200.50.
	currencyPattern = regexp.MustCompile(`\$\d[\d,]*(?:\.\d{1,2})?`)

	// longNumberPattern matches bare integers of 3+ digits, which are
	// likely account or transaction identifiers.
	longNumberPattern = regexp.MustCompile(`\b\d{3,}\b`)

	// properNamePattern matches capitalized multi-word sequences,
	// candidate proper names like "New York" or "United Airlines".
	properNamePattern = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)+\b`)

	// contentWordPattern matches lowercase words longer than 3 characters.
	contentWordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)
)

// properNameStoplist drops interrogative/command phrases that the
// capitalized-sequence pattern picks up at the start of questions.
var properNameStoplist = map[string]struct{}{
	"how much":  {},
	"how many":  {},
	"did i":     {},
	"do i":      {},
	"can you":   {},
	"what is":   {},
	"where did": {},
	"check my":  {},
	"show me":   {},
}

// contentWordStoplist drops query-scaffolding words that carry no signal
// for passage matching.
var contentWordStoplist = map[string]struct{}{
	"check": {}, "checked": {}, "emails": {}, "email": {},
	"much": {}, "many": {}, "what": {}, "how": {}, "was": {}, "were": {},
	"the": {}, "and": {}, "did": {}, "does": {}, "have": {}, "has": {},
	"with": {}, "about": {}, "show": {}, "tell": {}, "find": {},
	"please": {}, "where": {}, "when": {}, "this": {}, "that": {},
	"from": {}, "there": {}, "them": {}, "info": {}, "information": {},
}

// ExtractKeyTerms pulls salient tokens out of free text: monetary amounts,
// long numeric identifiers, capitalized name sequences, and content words.
// The result is ordered longest first so multi-word names outrank single
// keywords during matching. Pure and deterministic.
func ExtractKeyTerms(text string) []string {
	if text == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]struct{})
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}

	for _, m := range currencyPattern.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range longNumberPattern.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range properNamePattern.FindAllString(text, -1) {
		if _, stop := properNameStoplist[strings.ToLower(m)]; stop {
			continue
		}
		add(m)
	}
	lower := strings.ToLower(text)
	for _, m := range contentWordPattern.FindAllString(lower, -1) {
		if _, stop := contentWordStoplist[m]; stop {
			continue
		}
		add(m)
	}

	// Longest first; insertion order breaks ties so output stays stable.
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})
	return terms
}

// containsAny reports whether s contains any of the given substrings.
// Callers are expected to pass lowercased input.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
