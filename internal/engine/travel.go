package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// tripRecord is one parsed "Destination – Cities (Year)" block with its
// labeled sub-fields.
type tripRecord struct {
	destination string
	cities      string
	year        string
	fields      map[string]string // keyed by lowercased label
}

// tripHeaderPattern matches headers like "Thailand – Bangkok & Phuket (2023)".
// Hyphen, en dash and em dash all occur in real documents.
var tripHeaderPattern = regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z .']*?)\s*[-–—]\s*([^(\n]+?)\s*\((\d{4})\)`)

// tripFieldPattern matches labeled sub-fields beneath a trip header.
var tripFieldPattern = regexp.MustCompile(`(?mi)^\s*(rental car|total cost|airline|hotel)\s*:\s*(.+?)\s*$`)

// tripAspect is the closed set of things a travel question can ask about.
type tripAspect int

const (
	aspectDestination tripAspect = iota
	aspectCost
	aspectCar
	aspectAirline
	aspectHotel
)

var tripAspectCues = []struct {
	aspect tripAspect
	cues   []string
}{
	{aspectDestination, []string{"where", "destination", "which country", "go in", "went", "visit", "travel to"}},
	{aspectCost, []string{"cost", "how much", "spend", "spent", "price", "total"}},
	{aspectCar, []string{"rental", "car", "drive", "drove"}},
	{aspectAirline, []string{"airline", "fly", "flew", "flight"}},
	{aspectHotel, []string{"hotel", "stay", "stayed", "accommodation"}},
}

// synthesizeTravel answers vacation questions from structured trip records
// found in the context. Only the sub-fields the question actually asked
// about are returned, never the full record, and a year named in the
// question filters the records. Returns "" when nothing applies.
func synthesizeTravel(question string, passages []Passage) string {
	q := strings.ToLower(question)

	var aspects []tripAspect
	for _, entry := range tripAspectCues {
		if containsAny(q, entry.cues) {
			aspects = append(aspects, entry.aspect)
		}
	}
	if len(aspects) == 0 {
		return ""
	}

	years := yearPattern.FindAllString(question, -1)

	var records []tripRecord
	for _, p := range passages {
		records = append(records, parseTripRecords(p.Text)...)
	}
	if len(years) > 0 {
		wanted := make(map[string]struct{}, len(years))
		for _, y := range years {
			wanted[y] = struct{}{}
		}
		filtered := records[:0]
		for _, r := range records {
			if _, ok := wanted[r.year]; ok {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if len(records) == 0 {
		return ""
	}

	var answers []string
	for _, r := range records {
		var parts []string
		for _, aspect := range aspects {
			switch aspect {
			case aspectDestination:
				parts = append(parts, fmt.Sprintf("%s (%s)", r.destination, r.cities))
			case aspectCost:
				if v, ok := r.fields["total cost"]; ok {
					parts = append(parts, "Total cost: "+v)
				}
			case aspectCar:
				if v, ok := r.fields["rental car"]; ok {
					parts = append(parts, "Rental car: "+v)
				}
			case aspectAirline:
				if v, ok := r.fields["airline"]; ok {
					parts = append(parts, "Airline: "+v)
				}
			case aspectHotel:
				if v, ok := r.fields["hotel"]; ok {
					parts = append(parts, "Hotel: "+v)
				}
			}
		}
		if len(parts) == 0 {
			continue
		}
		answer := strings.Join(parts, ", ")
		if len(years) == 0 {
			// Without a year filter the reader needs to know which trip.
			answer = fmt.Sprintf("%s [%s]", answer, r.year)
		}
		answers = append(answers, answer)
	}
	if len(answers) == 0 {
		return ""
	}
	return strings.Join(answers, "; ")
}

// parseTripRecords extracts every trip record from one passage. Sub-fields
// between two headers belong to the earlier header.
func parseTripRecords(text string) []tripRecord {
	headers := tripHeaderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil
	}

	records := make([]tripRecord, 0, len(headers))
	for i, h := range headers {
		segmentEnd := len(text)
		if i+1 < len(headers) {
			segmentEnd = headers[i+1][0]
		}
		segment := text[h[1]:segmentEnd]

		fields := make(map[string]string)
		for _, m := range tripFieldPattern.FindAllStringSubmatch(segment, -1) {
			fields[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
		}

		records = append(records, tripRecord{
			destination: strings.TrimSpace(text[h[2]:h[3]]),
			cities:      strings.TrimSpace(text[h[4]:h[5]]),
			year:        text[h[6]:h[7]],
			fields:      fields,
		})
	}
	return records
}
