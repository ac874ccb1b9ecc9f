package ingest

import "strings"

// Document categories assigned at upload time. They drive the personalized
// suggestions in fallback answers.
const (
	CategoryFinancial = "financial"
	CategoryResume    = "resume"
	CategoryTravel    = "travel"
	CategoryNotes     = "notes"
	CategoryOther     = "other"
)

var financialDocCues = []string{
	"payment", "zelle", "venmo", "paypal", "transaction", "statement",
	"invoice", "expense", "balance",
}

var resumeDocCues = []string{
	"resume", "curriculum vitae", "work experience", "skills",
	"education", "employment history",
}

var travelDocCues = []string{
	"trip", "travel", "itinerary", "flight", "hotel", "rental car",
	"vacation",
}

var notesDocCues = []string{
	"notes", "meeting", "journal", "prompt engineering", "study",
}

// ClassifyDocument assigns one category from the title and content. Cue
// lists are checked in a fixed order so the same document always lands in
// the same category.
func ClassifyDocument(title, content string) string {
	haystack := strings.ToLower(title + " " + content)

	for _, cue := range resumeDocCues {
		if strings.Contains(haystack, cue) {
			return CategoryResume
		}
	}
	for _, cue := range financialDocCues {
		if strings.Contains(haystack, cue) {
			return CategoryFinancial
		}
	}
	for _, cue := range travelDocCues {
		if strings.Contains(haystack, cue) {
			return CategoryTravel
		}
	}
	for _, cue := range notesDocCues {
		if strings.Contains(haystack, cue) {
			return CategoryNotes
		}
	}
	return CategoryOther
}
