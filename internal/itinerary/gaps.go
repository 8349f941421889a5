package itinerary

import (
	"strings"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// IdentifyGaps scans adjacent pairs of the sorted legs and emits a Gap
// wherever the arrival city of one leg does not match the departure city of
// the next, compared on extracted city names, case-insensitively. A country
// mismatch alone does not trigger a gap; it only raises the severity of a
// city mismatch to COUNTRY.
func IdentifyGaps(legs []model.TravelLeg) []model.Gap {
	var gaps []model.Gap

	for i := 0; i+1 < len(legs); i++ {
		current, next := legs[i], legs[i+1]

		currentArrival := geo.CityName(current.ArrivalCity)
		nextDeparture := geo.CityName(next.DepartureCity)
		if strings.EqualFold(currentArrival, nextDeparture) {
			continue
		}

		severity := model.SeverityCity
		if !strings.EqualFold(current.ArrivalCountry, next.DepartureCountry) {
			severity = model.SeverityCountry
		}

		gaps = append(gaps, model.Gap{
			Index:                 i,
			Number:                len(gaps) + 1,
			CurrentArrival:        currentArrival,
			CurrentArrivalCountry: current.ArrivalCountry,
			CurrentArrivalDate:    current.ArrivalDate,
			NextDeparture:         nextDeparture,
			NextDepartureCountry:  next.DepartureCountry,
			NextDepartureDate:     next.DepartureDate,
			DaysBetween:           DaysBetween(current.ArrivalDate, next.DepartureDate),
			Severity:              severity,
		})
	}

	countryGaps := 0
	for _, g := range gaps {
		if g.Severity == model.SeverityCountry {
			countryGaps++
		}
	}
	zap.L().Info("itinerary: identified gaps",
		zap.Int("gaps", len(gaps)),
		zap.Int("country", countryGaps),
		zap.Int("city", len(gaps)-countryGaps))

	return gaps
}

// DaysBetween returns the whole days from date1 to date2. Negative when
// date2 precedes date1; zero when either date fails to parse.
func DaysBetween(date1, date2 string) int {
	d1, ok := model.ParseDate(date1)
	if !ok {
		return 0
	}
	d2, ok := model.ParseDate(date2)
	if !ok {
		return 0
	}
	return int(d2.Sub(d1).Hours() / 24)
}
