package engine

import (
	"reflect"
	"testing"
)

func TestExtractKeyTerms(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		contains []string
		excludes []string
	}{
		{
			name:     "currency amounts",
			text:     "I paid $1,200.50 and later $15.99",
			contains: []string{"$1,200.50", "$15.99"},
		},
		{
			name:     "long numeric identifiers",
			text:     "transaction 48219 on account 7701",
			contains: []string{"48219", "7701"},
		},
		{
			name:     "proper name sequences",
			text:     "How much did I pay John Smith via Zelle?",
			contains: []string{"John Smith"},
			excludes: []string{"How much"},
		},
		{
			name:     "content words survive lowercasing",
			text:     "check my emails how much did I pay for Netflix",
			contains: []string{"netflix"},
			excludes: []string{"check", "emails", "much"},
		},
		{
			name:     "stoplist drops scaffolding",
			text:     "Can you show me information about that please",
			excludes: []string{"show", "information", "about", "that", "please", "Can you"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeyTerms(tt.text)
			set := make(map[string]struct{}, len(got))
			for _, term := range got {
				set[term] = struct{}{}
			}
			for _, want := range tt.contains {
				if _, ok := set[want]; !ok {
					t.Errorf("ExtractKeyTerms(%q) = %v, missing %q", tt.text, got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if _, ok := set[unwanted]; ok {
					t.Errorf("ExtractKeyTerms(%q) = %v, should not contain %q", tt.text, got, unwanted)
				}
			}
		})
	}
}

func TestExtractKeyTermsOrdering(t *testing.T) {
	got := ExtractKeyTerms("How much did I pay John Smith via Zelle?")
	for i := 1; i < len(got); i++ {
		if len(got[i]) > len(got[i-1]) {
			t.Fatalf("terms not ordered longest-first: %v", got)
		}
	}
}

func TestExtractKeyTermsDeterministic(t *testing.T) {
	text := "Did United Airlines charge $450 for flight 8812 to New York?"
	first := ExtractKeyTerms(text)
	for i := 0; i < 10; i++ {
		if got := ExtractKeyTerms(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestExtractKeyTermsEmpty(t *testing.T) {
	if got := ExtractKeyTerms(""); got != nil {
		t.Errorf("ExtractKeyTerms(\"\") = %v, want nil", got)
	}
}
