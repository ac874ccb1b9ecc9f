package engine

import (
	"fmt"
	"strings"
)

// emailProvenancePrefix marks passages that originated from the email corpus.
const emailProvenancePrefix = "[EMAIL from"

// emailQuestionHints mark a question as asking about mailbox content.
var emailQuestionHints = []string{"email", "inbox", "receipt", "invoice", "subscription", "order confirmation"}

// companyVariants maps a canonical company to the names it bills under.
// Receipts rarely use the brand the user asks about ("apple" charges appear
// as iCloud or App Store), so matching goes through this table. The slice
// keeps lookup order deterministic.
var companyVariants = []struct {
	name     string
	variants []string
}{
	{"Apple", []string{"apple", "icloud", "app store", "itunes"}},
	{"Amazon", []string{"amazon", "amzn", "amazon prime"}},
	{"Google", []string{"google", "google play", "youtube premium"}},
	{"Netflix", []string{"netflix"}},
	{"Spotify", []string{"spotify"}},
	{"Uber", []string{"uber", "uber eats"}},
}

// amountWindow bounds how far past a company mention the extractor looks
// for the charged amount before falling back to the whole passage.
const amountWindow = 200

// synthesizeFromEmails extracts a charged amount for a known company from
// email-derived passages. Only engaged for email-flavored questions, and
// only passages carrying the email provenance prefix are considered.
// Returns "" when no confident extraction is possible.
func synthesizeFromEmails(question string, passages []Passage) string {
	q := strings.ToLower(question)
	if !containsAny(q, emailQuestionHints) {
		return ""
	}

	var company string
	var variants []string
	for _, entry := range companyVariants {
		if containsAny(q, entry.variants) {
			company = entry.name
			variants = entry.variants
			break
		}
	}
	if company == "" {
		return ""
	}

	for _, p := range passages {
		if p.Kind != SourceEmail || !strings.HasPrefix(p.Text, emailProvenancePrefix) {
			continue
		}
		lower := strings.ToLower(p.Text)

		mention := -1
		for _, v := range variants {
			if idx := strings.Index(lower, v); idx >= 0 && (mention < 0 || idx < mention) {
				mention = idx
			}
		}
		if mention < 0 {
			continue
		}

		// Prefer the amount nearest the company mention; a receipt chunk can
		// list several line items.
		window := p.Text[mention:]
		if len(window) > amountWindow {
			window = window[:amountWindow]
		}
		amount := currencyPattern.FindString(window)
		if amount == "" {
			amount = currencyPattern.FindString(p.Text)
		}
		if amount == "" {
			continue
		}

		return fmt.Sprintf("You paid %s to %s, according to your email receipts.", amount, company)
	}
	return ""
}
