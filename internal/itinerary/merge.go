package itinerary

import (
	"strings"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// MergeCandidates splices matched candidates into the original sorted legs.
// It walks the original sequence in order; wherever a leg precedes a gap
// (city tokens differ), the first unused candidate whose city tokens
// exactly bridge the gap is inserted after it. Token equality here is
// stricter than the matcher's substring test: this is final placement, and
// near-matches that survived matching must not land in the wrong slot.
// Each candidate fills at most one gap. Original legs with no provenance
// are tagged as coming from the input table.
//
// The returned sequence is in splice order, not chronological order;
// callers sort before treating it as final.
func MergeCandidates(original []model.TravelLeg, pool []model.CandidateLeg) ([]model.TravelLeg, int) {
	merged := make([]model.TravelLeg, 0, len(original)+len(pool))
	used := make([]bool, len(pool))
	filled := 0

	for i, leg := range original {
		if leg.SourceFile == "" {
			leg.SourceFile = model.SourceOriginal
		}
		merged = append(merged, leg)

		if i+1 >= len(original) {
			continue
		}
		currentArrival := geo.CityName(leg.ArrivalCity)
		nextDeparture := geo.CityName(original[i+1].DepartureCity)
		if strings.EqualFold(currentArrival, nextDeparture) {
			continue
		}

		for j, cand := range pool {
			if used[j] {
				continue
			}
			candDeparture := geo.CityName(cand.DepartureCity)
			candArrival := geo.CityName(cand.ArrivalCity)
			if !strings.EqualFold(candDeparture, currentArrival) ||
				!strings.EqualFold(candArrival, nextDeparture) {
				continue
			}

			merged = append(merged, cand.TravelLeg)
			used[j] = true
			filled++
			zap.L().Info("itinerary: filled gap",
				zap.String("route", currentArrival+" -> "+nextDeparture),
				zap.String("via", cand.DepartureCity+" -> "+cand.ArrivalCity),
				zap.String("source", cand.SourceFile))
			break
		}
	}

	return merged, filled
}

// CountFilledGaps verifies the merged sequence against the original gap
// list, independently of how the merge was performed. A gap counts as
// filled when any leg after its original position exactly bridges it by
// city token. This is the authoritative reconciliation signal.
func CountFilledGaps(merged []model.TravelLeg, gaps []model.Gap) (filled, remaining int) {
	for _, gap := range gaps {
		found := false
		for i := gap.Index + 1; i < len(merged); i++ {
			departure := geo.CityName(merged[i].DepartureCity)
			arrival := geo.CityName(merged[i].ArrivalCity)
			if strings.EqualFold(departure, gap.CurrentArrival) &&
				strings.EqualFold(arrival, gap.NextDeparture) {
				found = true
				break
			}
		}
		if found {
			filled++
			zap.L().Debug("itinerary: gap filled",
				zap.Int("gap", gap.Number),
				zap.String("route", gap.CurrentArrival+" -> "+gap.NextDeparture))
		} else {
			remaining++
			zap.L().Debug("itinerary: gap unfilled",
				zap.Int("gap", gap.Number),
				zap.String("severity", string(gap.Severity)),
				zap.String("route", gap.CurrentArrival+" -> "+gap.NextDeparture))
		}
	}
	return filled, remaining
}
