package geo

import (
	"regexp"
	"strings"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

var (
	parenRe     = regexp.MustCompile(`\s*\([^)]*\)`)
	countryCode = regexp.MustCompile(`\(([A-Z]{2})\)`)
	cityCodeRe  = regexp.MustCompile(`\s*\([A-Z]{2}\)`)
)

// CityName reduces a raw city string to a comparable name: parenthesized
// codes removed, then truncated at the first " - " or "," qualifier.
// "Bangkok (BKK) - Suvarnabhumi" and "Bangkok, Thailand" both become
// "Bangkok".
func CityName(raw string) string {
	city := parenRe.ReplaceAllString(raw, "")
	city, _, _ = strings.Cut(city, " - ")
	city, _, _ = strings.Cut(city, ",")
	return strings.TrimSpace(city)
}

// CountryToken pulls the 2-letter parenthetical out of a "City (CC)"
// location. Blank or Unknown input yields ""; a location without a code
// comes back whole, so off-pattern strings still compare against each other.
func CountryToken(location string) string {
	location = strings.TrimSpace(location)
	if location == "" || location == model.CountryUnknown {
		return ""
	}
	if m := countryCode.FindStringSubmatch(location); m != nil {
		return m[1]
	}
	return location
}

// CityToken strips the "(CC)" suffix from a "City (CC)" location. Empty
// string for blank or Unknown input.
func CityToken(location string) string {
	location = strings.TrimSpace(location)
	if location == "" || location == model.CountryUnknown {
		return ""
	}
	return strings.TrimSpace(cityCodeRe.ReplaceAllString(location, ""))
}
