package model

import "fmt"

// GapSeverity classifies a detected gap by whether it crosses a border.
type GapSeverity string

const (
	// SeverityCountry means the two sides of the gap are in different countries.
	SeverityCountry GapSeverity = "COUNTRY"
	// SeverityCity means same country, different city.
	SeverityCity GapSeverity = "CITY"
)

// Gap is a discontinuity between leg i and leg i+1 of the sorted itinerary:
// the arrival city of one leg does not match the departure city of the next.
// Gaps hold copies of the relevant leg fields and are regenerated on every
// detection pass, never mutated.
type Gap struct {
	Index                 int         `json:"index"`  // index of leg i in the sorted sequence
	Number                int         `json:"number"` // 1-based position in scan order
	CurrentArrival        string      `json:"current_arrival"`
	CurrentArrivalCountry string      `json:"current_arrival_country"`
	CurrentArrivalDate    string      `json:"current_arrival_date"`
	NextDeparture         string      `json:"next_departure"`
	NextDepartureCountry  string      `json:"next_departure_country"`
	NextDepartureDate     string      `json:"next_departure_date"`
	DaysBetween           int         `json:"days_between"`
	Severity              GapSeverity `json:"severity"`
}

// Describe renders the gap for prompts and log lines.
func (g Gap) Describe() string {
	return fmt.Sprintf("%s (%s) to %s (%s) between %s and %s (%d days)",
		g.CurrentArrival, g.CurrentArrivalCountry,
		g.NextDeparture, g.NextDepartureCountry,
		g.CurrentArrivalDate, g.NextDepartureDate, g.DaysBetween)
}
