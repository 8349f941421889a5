package itinerary

import (
	"sort"
	"time"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// sentinelDate is the sort key for legs whose departure date does not
// parse. It predates any plausible travel record so malformed rows float to
// the front instead of failing the run.
var sentinelDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// sortKey combines departure date and time into a single instant. A leg
// with a valid date but blank or malformed time sorts at midnight; a leg
// with an unparseable date sorts to the sentinel regardless of time.
func sortKey(leg model.TravelLeg) time.Time {
	day, ok := model.ParseDate(leg.DepartureDate)
	if !ok {
		return sentinelDate
	}
	tod, ok := model.ParseTime(leg.DepartureTime)
	if !ok {
		return day
	}
	return day.Add(time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute)
}

// SortChronologically returns a copy of legs ordered by (departure date,
// departure time). The sort is stable, so legs with equal keys keep their
// input order and the operation is idempotent.
func SortChronologically(legs []model.TravelLeg) []model.TravelLeg {
	sorted := make([]model.TravelLeg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]).Before(sortKey(sorted[j]))
	})
	return sorted
}

// CountInversions counts adjacent pairs where the next leg departs before
// the current leg arrives. A nonzero count after sorting means the data
// itself carries overlapping or inconsistent dates; it is reported, never
// fatal. Pairs with unparseable dates are skipped.
func CountInversions(legs []model.TravelLeg) int {
	inversions := 0
	for i := 0; i+1 < len(legs); i++ {
		arrival, ok := model.ParseDate(legs[i].ArrivalDate)
		if !ok {
			continue
		}
		departure, ok := model.ParseDate(legs[i+1].DepartureDate)
		if !ok {
			continue
		}
		if departure.Before(arrival) {
			inversions++
		}
	}
	return inversions
}
