package itinerary

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// matchWindow pads the gap period on both sides when testing candidate
// departure dates: travel that fills a gap may start slightly before the
// recorded arrival or end slightly after the recorded departure.
const matchWindow = 7 * 24 * time.Hour

// advanceBookingWindow extends the document search well before a gap, since
// booking confirmations often arrive months ahead of travel.
const advanceBookingWindow = 365 * 24 * time.Hour

// MatchCandidates returns the pool of candidates accepted for any gap, in
// gap order. A candidate matching several gaps appears once, at its first
// match; the merge stage then admits it into at most one insertion point.
func MatchCandidates(candidates []model.CandidateLeg, gaps []model.Gap) []model.CandidateLeg {
	var pool []model.CandidateLeg
	taken := make(map[int]bool, len(candidates))

	for _, gap := range gaps {
		matched := 0
		for idx, cand := range candidates {
			if !matchesGap(cand, gap) {
				continue
			}
			matched++
			if taken[idx] {
				continue
			}
			taken[idx] = true
			pool = append(pool, cand)
		}
		zap.L().Debug("itinerary: matched candidates for gap",
			zap.Int("gap", gap.Number),
			zap.String("gap_route", gap.CurrentArrival+" -> "+gap.NextDeparture),
			zap.Int("matches", matched))
	}

	zap.L().Info("itinerary: candidate matching complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("gaps", len(gaps)),
		zap.Int("pool", len(pool)))
	return pool
}

// CandidatesForGap returns every candidate accepted for a single gap:
// departure date inside the padded gap window and locations connecting the
// gap's endpoints. Candidates with unparseable departure dates are skipped;
// a gap whose own dates do not parse accepts nothing.
func CandidatesForGap(candidates []model.CandidateLeg, gap model.Gap) []model.CandidateLeg {
	var matched []model.CandidateLeg
	for _, cand := range candidates {
		if matchesGap(cand, gap) {
			matched = append(matched, cand)
		}
	}
	return matched
}

func matchesGap(cand model.CandidateLeg, gap model.Gap) bool {
	start, ok := model.ParseDate(gap.CurrentArrivalDate)
	if !ok {
		return false
	}
	end, ok := model.ParseDate(gap.NextDepartureDate)
	if !ok {
		return false
	}
	departure, ok := model.ParseDate(cand.DepartureDate)
	if !ok {
		return false
	}
	if departure.Before(start.Add(-matchWindow)) || departure.After(end.Add(matchWindow)) {
		return false
	}
	return connectsGap(cand, gap)
}

// connectsGap tests whether the candidate's route bridges the gap. The
// comparison is a bidirectional substring test: the gap's city token may be
// contained in the candidate's raw city field or vice versa, so "Bangkok"
// connects with "Bangkok (BKK) Suvarnabhumi" in either position.
func connectsGap(cand model.CandidateLeg, gap model.Gap) bool {
	currentArrival := strings.ToLower(gap.CurrentArrival)
	nextDeparture := strings.ToLower(gap.NextDeparture)
	candDeparture := strings.ToLower(cand.DepartureCity)
	candArrival := strings.ToLower(cand.ArrivalCity)

	departureConnects := strings.Contains(candDeparture, currentArrival) ||
		strings.Contains(currentArrival, candDeparture)
	arrivalConnects := strings.Contains(candArrival, nextDeparture) ||
		strings.Contains(nextDeparture, candArrival)
	return departureConnects && arrivalConnects
}

// SelectDocuments narrows a corpus to the documents worth mining for the
// open gaps: for each gap with parseable dates, those DocumentsForGap
// accepts. Undated documents stay in scope since they cannot be placed
// relative to any window. When no gap carries usable dates there is no
// window to apply and the corpus passes through unchanged.
func SelectDocuments(docs []model.Document, gaps []model.Gap) []model.Document {
	keep := make(map[string]bool)
	windowed := false
	for _, gap := range gaps {
		if _, ok := model.ParseDate(gap.CurrentArrivalDate); !ok {
			continue
		}
		if _, ok := model.ParseDate(gap.NextDepartureDate); !ok {
			continue
		}
		windowed = true
		for _, doc := range DocumentsForGap(docs, gap) {
			keep[doc.ID] = true
		}
	}
	if !windowed {
		return docs
	}

	selected := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if !doc.HasDate() || keep[doc.ID] {
			selected = append(selected, doc)
		}
	}
	zap.L().Info("itinerary: document selection complete",
		zap.Int("scanned", len(docs)),
		zap.Int("gaps", len(gaps)),
		zap.Int("selected", len(selected)))
	return selected
}

// DocumentsForGap returns the documents worth mining for one gap: those
// dated inside the padded gap window, plus any dated up to a year before
// the gap opens. Documents without a parsed date are excluded.
func DocumentsForGap(docs []model.Document, gap model.Gap) []model.Document {
	start, ok := model.ParseDate(gap.CurrentArrivalDate)
	if !ok {
		return nil
	}
	end, ok := model.ParseDate(gap.NextDepartureDate)
	if !ok {
		return nil
	}

	var matched []model.Document
	for _, doc := range docs {
		if !doc.HasDate() {
			continue
		}
		inWindow := !doc.Date.Before(start.Add(-matchWindow)) && !doc.Date.After(end.Add(matchWindow))
		advance := !doc.Date.Before(start.Add(-advanceBookingWindow)) && !doc.Date.After(start)
		if inWindow || advance {
			matched = append(matched, doc)
		}
	}
	return matched
}
