package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

func TestMergeCandidates_FillsGap(t *testing.T) {
	t.Parallel()

	original := []model.TravelLeg{
		testLeg("London (LHR)", "2023-02-05", "16:20", "Bangkok (BKK)", "2023-02-06"),
		testLeg("Kuala Lumpur (KUL)", "2023-03-10", "09:00", "Colombo (CMB)", "2023-03-10"),
	}
	cand := candidate("Bangkok (DMK)", "2023-02-22", "Kuala Lumpur (KUL)")
	cand.SourceFile = "booking-confirmation.eml"

	merged, filled := MergeCandidates(original, []model.CandidateLeg{cand})
	assert.Equal(t, 1, filled)
	require.Len(t, merged, 3)

	assert.Equal(t, "London (LHR)", merged[0].DepartureCity)
	assert.Equal(t, model.SourceOriginal, merged[0].SourceFile)
	assert.Equal(t, "Bangkok (DMK)", merged[1].DepartureCity)
	assert.Equal(t, "booking-confirmation.eml", merged[1].SourceFile)
	assert.Equal(t, "Kuala Lumpur (KUL)", merged[2].DepartureCity)
}

func TestMergeCandidates_KeepsExistingProvenance(t *testing.T) {
	t.Parallel()

	leg := testLeg("A", "2023-01-01", "", "B", "2023-01-01")
	leg.SourceFile = "prior-run.eml"

	merged, filled := MergeCandidates([]model.TravelLeg{leg}, nil)
	assert.Equal(t, 0, filled)
	require.Len(t, merged, 1)
	assert.Equal(t, "prior-run.eml", merged[0].SourceFile)
}

func TestMergeCandidates_CandidateFillsAtMostOneGap(t *testing.T) {
	t.Parallel()

	// Two identical Bangkok -> Kuala Lumpur gaps, one candidate.
	original := []model.TravelLeg{
		testLeg("London", "2023-02-05", "", "Bangkok (BKK)", "2023-02-06"),
		testLeg("Kuala Lumpur (KUL)", "2023-03-10", "", "Bangkok (BKK)", "2023-03-10"),
		testLeg("Kuala Lumpur (KUL)", "2023-04-02", "", "Colombo", "2023-04-02"),
	}
	cand := candidate("Bangkok", "2023-02-22", "Kuala Lumpur")

	merged, filled := MergeCandidates(original, []model.CandidateLeg{cand})
	assert.Equal(t, 1, filled)
	require.Len(t, merged, 4)
	assert.Equal(t, "Bangkok", merged[1].DepartureCity) // spliced at the first gap only
}

func TestMergeCandidates_RequiresExactTokenMatch(t *testing.T) {
	t.Parallel()

	original := []model.TravelLeg{
		testLeg("London", "2023-02-05", "", "Bangkok (BKK)", "2023-02-06"),
		testLeg("Kuala Lumpur (KUL)", "2023-03-10", "", "Colombo", "2023-03-10"),
	}
	// "Bangkok Suvarnabhumi" passes the matcher's substring test but is not
	// an exact city token, so final placement rejects it.
	cand := candidate("Bangkok Suvarnabhumi", "2023-02-22", "Kuala Lumpur")

	merged, filled := MergeCandidates(original, []model.CandidateLeg{cand})
	assert.Equal(t, 0, filled)
	assert.Len(t, merged, 2)
}

func TestMergeCandidates_NoSpliceWithoutGap(t *testing.T) {
	t.Parallel()

	original := []model.TravelLeg{
		testLeg("A", "2023-01-01", "", "Bangkok (BKK)", "2023-01-01"),
		testLeg("Bangkok (DMK)", "2023-01-05", "", "C", "2023-01-05"),
	}
	cand := candidate("Bangkok", "2023-01-03", "Bangkok")

	merged, filled := MergeCandidates(original, []model.CandidateLeg{cand})
	assert.Equal(t, 0, filled)
	assert.Len(t, merged, 2)
}

func TestCountFilledGaps(t *testing.T) {
	t.Parallel()

	original := []model.TravelLeg{
		testLeg("London", "2023-02-05", "", "Bangkok (BKK)", "2023-02-06"),
		testLeg("Kuala Lumpur (KUL)", "2023-03-10", "", "Colombo", "2023-03-10"),
	}
	gaps := IdentifyGaps(original)
	require.Len(t, gaps, 1)

	t.Run("unfilled", func(t *testing.T) {
		t.Parallel()
		filled, remaining := CountFilledGaps(original, gaps)
		assert.Equal(t, 0, filled)
		assert.Equal(t, 1, remaining)
	})

	t.Run("filled after merge", func(t *testing.T) {
		t.Parallel()
		cand := candidate("Bangkok", "2023-02-22", "Kuala Lumpur")
		merged, _ := MergeCandidates(original, []model.CandidateLeg{cand})
		filled, remaining := CountFilledGaps(merged, gaps)
		assert.Equal(t, 1, filled)
		assert.Equal(t, 0, remaining)
	})
}
