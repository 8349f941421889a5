package itinerary

import (
	"strings"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// Connection-analysis markers written to the output table.
const (
	markMatch    = "✅"
	markMismatch = "❌"
	markNone     = "N/A"
)

// AnnotatedLeg is a travel leg plus connection-analysis columns comparing
// its arrival against the following leg's departure.
type AnnotatedLeg struct {
	model.TravelLeg
	NextCountryMatch string
	NextCityMatch    string
	NextCountry      string
	NextCity         string
}

// Annotate computes connection-analysis columns for each leg against its
// successor. Country and city tokens are pulled from the city fields, which
// carry the "City (CC)" pattern; a match requires both tokens present and
// equal case-insensitively. The final leg has no successor and gets N/A in
// every column.
func Annotate(legs []model.TravelLeg) []AnnotatedLeg {
	annotated := make([]AnnotatedLeg, 0, len(legs))

	for i, leg := range legs {
		row := AnnotatedLeg{TravelLeg: leg}

		if i+1 >= len(legs) {
			row.NextCountryMatch = markNone
			row.NextCityMatch = markNone
			row.NextCountry = markNone
			row.NextCity = markNone
			annotated = append(annotated, row)
			continue
		}

		next := legs[i+1]
		currentCountry := geo.CountryToken(leg.ArrivalCity)
		currentCity := geo.CityToken(leg.ArrivalCity)
		nextCountry := geo.CountryToken(next.DepartureCity)
		nextCity := geo.CityToken(next.DepartureCity)

		row.NextCountryMatch = mark(tokensMatch(currentCountry, nextCountry))
		row.NextCityMatch = mark(tokensMatch(currentCity, nextCity))
		row.NextCountry = orUnknown(nextCountry)
		row.NextCity = orUnknown(nextCity)
		annotated = append(annotated, row)
	}

	return annotated
}

func tokensMatch(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func mark(matched bool) string {
	if matched {
		return markMatch
	}
	return markMismatch
}

func orUnknown(token string) string {
	if token == "" {
		return model.CountryUnknown
	}
	return token
}
