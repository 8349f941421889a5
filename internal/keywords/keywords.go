// Package keywords builds the vocabulary used to decide whether a document
// is worth sending to extraction: a generic travel vocabulary plus terms
// derived from the specific gaps being investigated.
package keywords

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// fallback is the built-in vocabulary used when no keyword file is
// configured or the configured file cannot be read.
var fallback = []string{
	"flight", "airline", "airport", "departure", "arrival", "boarding",
	"ticket", "booking", "reservation", "itinerary", "hotel", "travel",
	"trip", "journey", "vacation", "holiday", "tour", "tourism",
}

// TravelKeywords loads the generic travel vocabulary from a
// newline-delimited file. Lines are lower-cased; blank lines and lines
// starting with # are skipped. A missing or unreadable file falls back to
// the built-in vocabulary and is never an error.
func TravelKeywords(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Warn("keywords: falling back to built-in vocabulary",
			zap.String("path", path), zap.Error(err))
		return append([]string(nil), fallback...)
	}
	defer f.Close()

	var kws []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		kws = append(kws, line)
	}
	if err := scanner.Err(); err != nil {
		zap.L().Warn("keywords: falling back to built-in vocabulary",
			zap.String("path", path), zap.Error(err))
		return append([]string(nil), fallback...)
	}

	zap.L().Info("keywords: loaded vocabulary",
		zap.String("path", path), zap.Int("keywords", len(kws)))
	return kws
}

// GapLocationKeywords derives search terms from the gaps themselves: the
// city and country tokens on both sides of each gap, plus the known
// demonyms and alternate names for each country code. Deduplicated in
// first-seen order, blanks removed.
func GapLocationKeywords(gaps []model.Gap) []string {
	var kws []string
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		kws = append(kws, kw)
	}

	for _, gap := range gaps {
		add(gap.CurrentArrival)
		add(gap.NextDeparture)
		add(gap.CurrentArrivalCountry)
		add(gap.NextDepartureCountry)
		for _, name := range geo.Demonyms(gap.CurrentArrivalCountry) {
			add(name)
		}
		for _, name := range geo.Demonyms(gap.NextDepartureCountry) {
			add(name)
		}
	}
	return kws
}

// Matches reports whether any keyword appears as a substring of the
// document's subject, sender or body, case-insensitively.
func Matches(doc model.Document, kws []string) bool {
	subject := strings.ToLower(doc.Subject)
	sender := strings.ToLower(doc.Sender)
	body := strings.ToLower(doc.Body)

	for _, kw := range kws {
		if strings.Contains(subject, kw) || strings.Contains(sender, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}
