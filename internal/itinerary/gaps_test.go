package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

func TestIdentifyGaps_NoGapAtMatchingJoin(t *testing.T) {
	t.Parallel()

	legs := []model.TravelLeg{
		testLeg("A", "2023-01-01", "", "Bangkok (BKK)", "2023-01-01"),
		testLeg("Bangkok (DMK)", "2023-01-05", "", "C", "2023-01-05"),
	}
	assert.Empty(t, IdentifyGaps(legs))
}

func TestIdentifyGaps_SingleGap(t *testing.T) {
	t.Parallel()

	legs := []model.TravelLeg{
		{
			DepartureCity: "A", DepartureDate: "2023-01-01",
			ArrivalCity: "Bangkok (BKK)", ArrivalDate: "2023-01-01", ArrivalCountry: "TH",
		},
		{
			DepartureCity: "Kuala Lumpur (KUL)", DepartureDate: "2023-01-08", DepartureCountry: "MY",
			ArrivalCity: "D", ArrivalDate: "2023-01-08",
		},
	}

	gaps := IdentifyGaps(legs)
	require.Len(t, gaps, 1)

	gap := gaps[0]
	assert.Equal(t, 0, gap.Index)
	assert.Equal(t, 1, gap.Number)
	assert.Equal(t, "Bangkok", gap.CurrentArrival)
	assert.Equal(t, "Kuala Lumpur", gap.NextDeparture)
	assert.Equal(t, model.SeverityCountry, gap.Severity)
	assert.Equal(t, 7, gap.DaysBetween)
}

func TestIdentifyGaps_Severity(t *testing.T) {
	t.Parallel()

	t.Run("different countries", func(t *testing.T) {
		t.Parallel()
		legs := []model.TravelLeg{
			{ArrivalCity: "London", ArrivalCountry: "GB", ArrivalDate: "2023-01-01", DepartureDate: "2023-01-01"},
			{DepartureCity: "Paris", DepartureCountry: "FR", DepartureDate: "2023-01-02"},
		}
		gaps := IdentifyGaps(legs)
		require.Len(t, gaps, 1)
		assert.Equal(t, model.SeverityCountry, gaps[0].Severity)
	})

	t.Run("same country", func(t *testing.T) {
		t.Parallel()
		legs := []model.TravelLeg{
			{ArrivalCity: "London", ArrivalCountry: "GB", ArrivalDate: "2023-01-01", DepartureDate: "2023-01-01"},
			{DepartureCity: "Manchester", DepartureCountry: "GB", DepartureDate: "2023-01-02"},
		}
		gaps := IdentifyGaps(legs)
		require.Len(t, gaps, 1)
		assert.Equal(t, model.SeverityCity, gaps[0].Severity)
	})

	t.Run("country mismatch alone is not a gap", func(t *testing.T) {
		t.Parallel()
		legs := []model.TravelLeg{
			{ArrivalCity: "Nicosia", ArrivalCountry: "CY", ArrivalDate: "2023-01-01", DepartureDate: "2023-01-01"},
			{DepartureCity: "Nicosia", DepartureCountry: "TR", DepartureDate: "2023-01-02"},
		}
		assert.Empty(t, IdentifyGaps(legs))
	})
}

func TestIdentifyGaps_Scenario(t *testing.T) {
	t.Parallel()

	legs := []model.TravelLeg{
		{
			DepartureCountry: "GB", DepartureCity: "London (LHR)", DepartureDate: "2023-02-05", DepartureTime: "16:20",
			ArrivalCountry: "QA", ArrivalCity: "Doha (DOH)", ArrivalDate: "2023-02-06", ArrivalTime: "01:10",
		},
		{
			DepartureCountry: "QA", DepartureCity: "Doha (DOH)", DepartureDate: "2023-02-06", DepartureTime: "02:05",
			ArrivalCountry: "TH", ArrivalCity: "Bangkok (BKK)", ArrivalDate: "2023-02-06", ArrivalTime: "12:40",
		},
		{
			DepartureCountry: "MY", DepartureCity: "Kuala Lumpur (KUL)", DepartureDate: "2023-03-10", DepartureTime: "09:00",
			ArrivalCountry: "LK", ArrivalCity: "Colombo (CMB)", ArrivalDate: "2023-03-10", ArrivalTime: "10:05",
		},
	}

	gaps := IdentifyGaps(SortChronologically(legs))
	require.Len(t, gaps, 1)

	gap := gaps[0]
	assert.Equal(t, "Bangkok", gap.CurrentArrival)
	assert.Equal(t, "Kuala Lumpur", gap.NextDeparture)
	assert.Equal(t, model.SeverityCountry, gap.Severity)
	assert.Equal(t, 32, gap.DaysBetween)
	assert.Equal(t, "TH", gap.CurrentArrivalCountry)
	assert.Equal(t, "MY", gap.NextDepartureCountry)
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 32, DaysBetween("2023-02-06", "2023-03-10"))
	assert.Equal(t, 0, DaysBetween("2023-02-06", "2023-02-06"))
	assert.Equal(t, -5, DaysBetween("2023-02-10", "2023-02-05"))
	assert.Equal(t, 0, DaysBetween("garbage", "2023-02-05"))
	assert.Equal(t, 0, DaysBetween("2023-02-05", ""))
}
