package extract

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/geo"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
	"github.com/waypoint-ops/itinerary-cli/pkg/anthropic"
)

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ExtractJSONArray returns the first balanced [...] span in text. The model
// often wraps its answer in markdown fences or prose; this tolerates both.
// Bracket depth ignores brackets inside JSON string literals.
func ExtractJSONArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// rawCandidate mirrors the JSON shape the prompt asks for. Confidence or
// other extra fields the model invents are ignored by the decoder.
type rawCandidate struct {
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

// ParseCandidates extracts and cleans candidate legs from a model response
// text. Malformed or missing JSON yields an empty list, never an error: a
// bad batch response contributes nothing to the run.
func ParseCandidates(text string) []model.CandidateLeg {
	arr, ok := ExtractJSONArray(text)
	if !ok {
		if strings.TrimSpace(text) != "" {
			zap.L().Warn("extract: no JSON array in response",
				zap.Int("response_chars", len(text)))
		}
		return nil
	}

	var raws []rawCandidate
	if err := json.Unmarshal([]byte(arr), &raws); err != nil {
		zap.L().Warn("extract: malformed candidate JSON", zap.Error(err))
		return nil
	}

	candidates := make([]model.CandidateLeg, 0, len(raws))
	for _, r := range raws {
		leg := model.TravelLeg{
			DepartureCountry: cleanLocation(r.DepartureCountry),
			DepartureCity:    cleanLocation(r.DepartureCity),
			DepartureDate:    cleanValue(r.DepartureDate),
			DepartureTime:    cleanValue(r.DepartureTime),
			ArrivalCountry:   cleanLocation(r.ArrivalCountry),
			ArrivalCity:      cleanLocation(r.ArrivalCity),
			ArrivalDate:      cleanValue(r.ArrivalDate),
			ArrivalTime:      cleanValue(r.ArrivalTime),
			Notes:            strings.TrimSpace(r.Notes),
			SourceFile:       strings.TrimSpace(r.SourceFile),
		}
		leg.DepartureCountry = normalizeCountry(leg.DepartureCountry)
		leg.ArrivalCountry = normalizeCountry(leg.ArrivalCountry)
		candidates = append(candidates, model.CandidateLeg{
			TravelLeg:      leg,
			SourceDocument: leg.SourceFile,
		})
	}
	return candidates
}

// normalizeCountry canonicalizes a country field, leaving the Unknown
// placeholder untouched.
func normalizeCountry(s string) string {
	if s == model.CountryUnknown {
		return s
	}
	return geo.CanonicalCountry(s)
}

// cleanValue normalizes a date or time field: the model's various spellings
// of "not stated" all become the empty string.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "unknown", "null", "none", "n/a":
		return ""
	}
	return s
}

// cleanLocation normalizes a location field: blank or null-ish values become
// the Unknown placeholder.
func cleanLocation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.CountryUnknown
	}
	switch strings.ToLower(s) {
	case "unknown", "null", "none", "n/a":
		return model.CountryUnknown
	}
	return s
}
