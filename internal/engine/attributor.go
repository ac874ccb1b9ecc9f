package engine

import (
	"sort"
	"strings"
)

const (
	// maxRelevantCitations caps how many term-matched passages get cited.
	maxRelevantCitations = 3
	// contextCitations guarantees the dominant retrieval ordering is still
	// represented even when no passage overlaps the question's terms.
	contextCitations = 2
)

// selectCitations picks the passages that actually justify citing a source.
// Retrieval order alone is not trusted: email-prioritized ordering can place
// non-substantive chunks ahead of the passage holding the numeric answer, so
// passages are re-scored by question-term overlap first.
func selectCitations(question string, merged []Passage) []Citation {
	if len(merged) == 0 {
		return []Citation{}
	}

	terms := ExtractKeyTerms(question)

	scores := make([]int, len(merged))
	for i, p := range merged {
		lower := strings.ToLower(p.Text)
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				scores[i]++
			}
		}
	}

	// Rank by overlap score; stable sort preserves merged-list order on ties.
	order := make([]int, len(merged))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var selected []int
	for _, idx := range order {
		if scores[idx] == 0 || len(selected) == maxRelevantCitations {
			break
		}
		selected = append(selected, idx)
	}
	// Union with the head of the merged list.
	for i := 0; i < len(merged) && i < contextCitations; i++ {
		selected = append(selected, i)
	}

	type identity struct {
		kind SourceKind
		id   string
	}
	seen := make(map[identity]struct{}, len(selected))
	citations := make([]Citation, 0, len(selected))
	for _, idx := range selected {
		p := merged[idx]
		key := identity{kind: p.Kind, id: p.SourceID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		citations = append(citations, Citation{Kind: p.Kind, ID: p.SourceID, Label: p.Label})
	}
	return citations
}
