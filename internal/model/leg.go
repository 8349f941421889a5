package model

import (
	"strings"
	"time"
)

// Date and time layouts used across the itinerary table.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// SourceOriginal tags legs that came from the input table rather than
// from document extraction.
const SourceOriginal = "Original"

// CountryUnknown is the canonical placeholder for a blank country field.
const CountryUnknown = "Unknown"

// TravelLeg is one point-to-point segment of the itinerary. All fields are
// kept as strings in table form; dates and times are parsed on demand so a
// malformed value degrades to a sentinel instead of failing the row.
type TravelLeg struct {
	DepartureCountry string `json:"departure_country"`
	DepartureCity    string `json:"departure_city"`
	DepartureDate    string `json:"departure_date"`
	DepartureTime    string `json:"departure_time"`
	ArrivalCountry   string `json:"arrival_country"`
	ArrivalCity      string `json:"arrival_city"`
	ArrivalDate      string `json:"arrival_date"`
	ArrivalTime      string `json:"arrival_time"`
	Notes            string `json:"notes"`
	SourceFile       string `json:"source_file"`
}

// CandidateLeg is a leg proposed by document extraction, not yet merged.
// Identical in shape to TravelLeg plus provenance.
type CandidateLeg struct {
	TravelLeg
	SourceDocument string `json:"source_document,omitempty"`
}

// ParseDate parses a YYYY-MM-DD value. Returns false for blank or
// malformed input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseTime parses an HH:MM value. Returns false for blank, "Unknown" or
// malformed input.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, CountryUnknown) {
		return time.Time{}, false
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
