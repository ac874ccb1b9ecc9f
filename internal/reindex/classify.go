package reindex

import "strings"

// Email categories assigned during indexing. The query engine filters on
// these when a question is scoped to one category.
const (
	CategoryReceipt   = "receipts"
	CategoryTravel    = "travel"
	CategoryStatement = "statements"
	CategoryOther     = "other"
)

var receiptCues = []string{
	"receipt", "your order", "payment confirmation", "invoice",
	"you paid", "purchase", "subscription renewal", "billed",
}

var travelCues = []string{
	"itinerary", "boarding pass", "flight confirmation", "reservation",
	"check-in", "booking confirmation", "hotel", "rental car",
}

var statementCues = []string{
	"statement", "account summary", "balance", "transaction history",
}

// ClassifyEmail assigns one category from the subject, sender, and body.
// Cue lists are checked in a fixed order so the same email always lands in
// the same category.
func ClassifyEmail(sender, subject, body string) string {
	haystack := strings.ToLower(sender + " " + subject + " " + body)

	for _, cue := range receiptCues {
		if strings.Contains(haystack, cue) {
			return CategoryReceipt
		}
	}
	for _, cue := range travelCues {
		if strings.Contains(haystack, cue) {
			return CategoryTravel
		}
	}
	for _, cue := range statementCues {
		if strings.Contains(haystack, cue) {
			return CategoryStatement
		}
	}
	return CategoryOther
}
