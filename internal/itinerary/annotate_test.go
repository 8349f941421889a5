package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

func TestAnnotate(t *testing.T) {
	t.Parallel()

	legs := []model.TravelLeg{
		testLeg("London (GB)", "2023-02-05", "", "Bangkok (TH)", "2023-02-06"),
		testLeg("Bangkok (TH)", "2023-02-22", "", "Kuala Lumpur (MY)", "2023-02-22"),
		testLeg("Penang (MY)", "2023-03-10", "", "Colombo (LK)", "2023-03-10"),
	}

	annotated := Annotate(legs)
	require.Len(t, annotated, 3)

	// Bangkok arrival connects to Bangkok departure.
	assert.Equal(t, markMatch, annotated[0].NextCountryMatch)
	assert.Equal(t, markMatch, annotated[0].NextCityMatch)
	assert.Equal(t, "TH", annotated[0].NextCountry)
	assert.Equal(t, "Bangkok", annotated[0].NextCity)

	// Kuala Lumpur arrival vs Penang departure: same country, different city.
	assert.Equal(t, markMatch, annotated[1].NextCountryMatch)
	assert.Equal(t, markMismatch, annotated[1].NextCityMatch)
	assert.Equal(t, "MY", annotated[1].NextCountry)
	assert.Equal(t, "Penang", annotated[1].NextCity)

	// Final row has no successor.
	assert.Equal(t, markNone, annotated[2].NextCountryMatch)
	assert.Equal(t, markNone, annotated[2].NextCityMatch)
	assert.Equal(t, markNone, annotated[2].NextCountry)
	assert.Equal(t, markNone, annotated[2].NextCity)
}

func TestAnnotate_MissingTokens(t *testing.T) {
	t.Parallel()

	legs := []model.TravelLeg{
		testLeg("London (GB)", "2023-02-05", "", "Bangkok (TH)", "2023-02-06"),
		testLeg("", "2023-02-22", "", "Colombo (LK)", "2023-02-22"),
	}

	annotated := Annotate(legs)
	require.Len(t, annotated, 2)

	// A blank next departure yields no tokens: no match, placeholder values.
	assert.Equal(t, markMismatch, annotated[0].NextCountryMatch)
	assert.Equal(t, markMismatch, annotated[0].NextCityMatch)
	assert.Equal(t, model.CountryUnknown, annotated[0].NextCountry)
	assert.Equal(t, model.CountryUnknown, annotated[0].NextCity)
}

func TestAnnotate_WholeLocationFallback(t *testing.T) {
	t.Parallel()

	// Locations without a (CC) code still compare on the full string.
	legs := []model.TravelLeg{
		testLeg("London", "2023-02-05", "", "Bangkok", "2023-02-06"),
		testLeg("bangkok", "2023-02-22", "", "Colombo", "2023-02-22"),
	}

	annotated := Annotate(legs)
	require.Len(t, annotated, 2)
	assert.Equal(t, markMatch, annotated[0].NextCountryMatch)
	assert.Equal(t, markMatch, annotated[0].NextCityMatch)
	assert.Equal(t, "bangkok", annotated[0].NextCity)
}

func TestAnnotate_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Annotate(nil))
}
