package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date", func(t *testing.T) {
		t.Parallel()
		d, ok := ParseDate("2023-02-06")
		assert.True(t, ok)
		assert.Equal(t, 2023, d.Year())
		assert.Equal(t, 6, d.Day())
	})

	t.Run("blank and malformed", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "   ", "06/02/2023", "2023-2-6", "not a date"} {
			_, ok := ParseDate(s)
			assert.False(t, ok, "input %q", s)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		_, ok := ParseDate(" 2023-02-06 ")
		assert.True(t, ok)
	})
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	t.Run("valid time", func(t *testing.T) {
		t.Parallel()
		tm, ok := ParseTime("18:25")
		assert.True(t, ok)
		assert.Equal(t, 18, tm.Hour())
		assert.Equal(t, 25, tm.Minute())
	})

	t.Run("unknown and blank", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "Unknown", "unknown", "9am"} {
			_, ok := ParseTime(s)
			assert.False(t, ok, "input %q", s)
		}
	})
}

func TestGapDescribe(t *testing.T) {
	t.Parallel()

	g := Gap{
		Number:                1,
		CurrentArrival:        "Bangkok",
		CurrentArrivalCountry: "TH",
		CurrentArrivalDate:    "2023-02-06",
		NextDeparture:         "Kuala Lumpur",
		NextDepartureCountry:  "MY",
		NextDepartureDate:     "2023-03-10",
		DaysBetween:           32,
		Severity:              SeverityCountry,
	}
	assert.Equal(t, "Bangkok (TH) to Kuala Lumpur (MY) between 2023-02-06 and 2023-03-10 (32 days)", g.Describe())
}

func TestTokenUsageAdd(t *testing.T) {
	t.Parallel()

	a := TokenUsage{InputTokens: 100, OutputTokens: 50, CacheCreationTokens: 10, CacheReadTokens: 20, Cost: 0.01}
	a.Add(TokenUsage{InputTokens: 200, OutputTokens: 100, CacheCreationTokens: 5, CacheReadTokens: 30, Cost: 0.02})
	assert.Equal(t, 300, a.InputTokens)
	assert.Equal(t, 150, a.OutputTokens)
	assert.Equal(t, 15, a.CacheCreationTokens)
	assert.Equal(t, 50, a.CacheReadTokens)
	assert.InDelta(t, 0.03, a.Cost, 0.0001)
}
