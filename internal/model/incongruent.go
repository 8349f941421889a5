package model

// IncongruentKind names a class of internal inconsistency in the itinerary.
type IncongruentKind string

const (
	// MultipleDepartures flags two or more legs departing the same city on
	// the same date.
	MultipleDepartures IncongruentKind = "multiple_departures"
	// OverlappingTimes flags two same-city, same-date departures less than
	// two hours apart.
	OverlappingTimes IncongruentKind = "overlapping_times"
)

// IncongruentEvent reports a logical inconsistency in the merged itinerary.
// Advisory only: events are logged and persisted, never auto-corrected, and
// never block output.
type IncongruentEvent struct {
	Kind        IncongruentKind `json:"kind"`
	City        string          `json:"city"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Legs        []TravelLeg     `json:"legs"`
}
