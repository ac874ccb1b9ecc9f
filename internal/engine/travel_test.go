package engine

import (
	"strings"
	"testing"
)

const tripNotes = `Thailand - Bangkok & Phuket (2023)
Airline: Thai Airways
Hotel: Marriott Riverside
Rental car: none
Total cost: $3,850

Italy - Rome & Florence (2024)
Airline: Delta
Hotel: Hotel Artemide
Rental car: Fiat 500 from Hertz
Total cost: $5,200`

func TestSynthesizeTravel(t *testing.T) {
	passages := []Passage{{Text: tripNotes, Kind: SourceDocument, SourceID: "d1"}}

	tests := []struct {
		name     string
		question string
		contains []string
		excludes []string
	}{
		{
			name:     "destination with year filter",
			question: "Where did I travel in 2023?",
			contains: []string{"Thailand (Bangkok & Phuket)"},
			excludes: []string{"Italy", "[2023]"},
		},
		{
			name:     "cost only for the asked year",
			question: "How much did my 2024 trip cost?",
			contains: []string{"Total cost: $5,200"},
			excludes: []string{"$3,850", "Airline", "Hotel"},
		},
		{
			name:     "rental car aspect",
			question: "What rental car did I drive in Italy in 2024?",
			contains: []string{"Rental car: Fiat 500 from Hertz"},
		},
		{
			name:     "no year appends trip year",
			question: "Which airline did I fly with?",
			contains: []string{"Airline: Thai Airways", "[2023]", "Airline: Delta", "[2024]"},
		},
		{
			name:     "year with no matching trip",
			question: "Where did I travel in 2019?",
			excludes: []string{"Thailand", "Italy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synthesizeTravel(tt.question, passages)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("synthesizeTravel(%q) = %q, missing %q", tt.question, got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("synthesizeTravel(%q) = %q, should not contain %q", tt.question, got, unwanted)
				}
			}
		})
	}
}

func TestSynthesizeTravelNoAspect(t *testing.T) {
	passages := []Passage{{Text: tripNotes, Kind: SourceDocument, SourceID: "d1"}}
	if got := synthesizeTravel("Summarize my notes", passages); got != "" {
		t.Errorf("got %q, want empty for a question with no travel aspect", got)
	}
}

func TestParseTripRecords(t *testing.T) {
	records := parseTripRecords(tripNotes)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.destination != "Thailand" || first.year != "2023" {
		t.Errorf("first record = %s (%s), want Thailand (2023)", first.destination, first.year)
	}
	if got := first.fields["total cost"]; got != "$3,850" {
		t.Errorf("total cost = %q, want $3,850", got)
	}
	if got := first.fields["airline"]; got != "Thai Airways" {
		t.Errorf("airline = %q, want Thai Airways", got)
	}

	second := records[1]
	if second.destination != "Italy" || second.cities != "Rome & Florence" {
		t.Errorf("second record = %s - %s, want Italy - Rome & Florence", second.destination, second.cities)
	}
	// Fields between two headers belong to the earlier header.
	if got := second.fields["rental car"]; got != "Fiat 500 from Hertz" {
		t.Errorf("rental car = %q, want Fiat 500 from Hertz", got)
	}
}

func TestParseTripRecordsNoHeaders(t *testing.T) {
	if got := parseTripRecords("just some prose with a year 2023 in it"); got != nil {
		t.Errorf("got %v, want nil for text without trip headers", got)
	}
}
