package itinerary

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// overlapThreshold is how close two same-city, same-date departures must be
// before they are flagged as overlapping.
const overlapThreshold = 2 * time.Hour

type departureKey struct {
	city string
	date string
}

// DetectIncongruentEvents scans the itinerary for logical inconsistencies:
// several departures from one city on one date, and pairs of such
// departures under two hours apart. Grouping uses the raw city and date
// strings. Events are advisory and reported in first-seen order.
func DetectIncongruentEvents(legs []model.TravelLeg) []model.IncongruentEvent {
	var events []model.IncongruentEvent

	groups := make(map[departureKey][]model.TravelLeg)
	var order []departureKey
	for _, leg := range legs {
		key := departureKey{city: leg.DepartureCity, date: leg.DepartureDate}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], leg)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		event := model.IncongruentEvent{
			Kind:        model.MultipleDepartures,
			City:        key.city,
			Date:        key.date,
			Description: fmt.Sprintf("Multiple departures from %s on %s", key.city, key.date),
			Legs:        group,
		}
		events = append(events, event)
		zap.L().Warn("itinerary: incongruent event",
			zap.String("kind", string(event.Kind)),
			zap.String("description", event.Description),
			zap.Int("legs", len(group)))
	}

	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			a, b := legs[i], legs[j]
			if a.DepartureCity != b.DepartureCity || a.DepartureDate != b.DepartureDate {
				continue
			}
			timeA, ok := model.ParseTime(a.DepartureTime)
			if !ok {
				continue
			}
			timeB, ok := model.ParseTime(b.DepartureTime)
			if !ok {
				continue
			}
			diff := timeA.Sub(timeB)
			if diff < 0 {
				diff = -diff
			}
			if diff >= overlapThreshold {
				continue
			}
			event := model.IncongruentEvent{
				Kind: model.OverlappingTimes,
				City: a.DepartureCity,
				Date: a.DepartureDate,
				Description: fmt.Sprintf("Overlapping departures from %s on %s at %s and %s",
					a.DepartureCity, a.DepartureDate, a.DepartureTime, b.DepartureTime),
				Legs: []model.TravelLeg{a, b},
			}
			events = append(events, event)
			zap.L().Warn("itinerary: incongruent event",
				zap.String("kind", string(event.Kind)),
				zap.String("description", event.Description))
		}
	}

	return events
}
