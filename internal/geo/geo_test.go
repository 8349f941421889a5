package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalCountry(t *testing.T) {
	t.Parallel()

	t.Run("aliases resolve to alpha-2", func(t *testing.T) {
		t.Parallel()
		cases := map[string]string{
			"UK":             "GB",
			"uk":             "GB",
			"United Kingdom": "GB",
			"England":        "GB",
			"United States":  "US",
			"USA":            "US",
			"Deutschland":    "DE",
			"Nippon":         "JP",
			"Czechia":        "CZ",
			"Cote d'Ivoire":  "CI",
		}
		for in, want := range cases {
			assert.Equal(t, want, CanonicalCountry(in), "input %q", in)
		}
	})

	t.Run("blank becomes Unknown", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Unknown", CanonicalCountry(""))
		assert.Equal(t, "Unknown", CanonicalCountry("   "))
	})

	t.Run("unknown two-letter passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "XX", CanonicalCountry("XX"))
		assert.Equal(t, "ZQ", CanonicalCountry("zq"))
	})

	t.Run("unmapped name returned uppercased", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "ATLANTIS", CanonicalCountry("Atlantis"))
		assert.Equal(t, "X1", CanonicalCountry("x1")) // digit blocks passthrough match, still uppercased
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"UK", "GB", "", "Unknown", "United States", "Atlantis", "XX"} {
			once := CanonicalCountry(in)
			assert.Equal(t, once, CanonicalCountry(once), "input %q", in)
		}
	})
}

func TestCityName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Bangkok (BKK)":                "Bangkok",
		"Bangkok (BKK) - Suvarnabhumi": "Bangkok",
		"London (LHR)":                 "London",
		"Kuala Lumpur":                 "Kuala Lumpur",
		"Paris, France":                "Paris",
		"Doha - Hamad International":   "Doha",
		"  Colombo (CMB)  ":            "Colombo",
		"":                             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CityName(in), "input %q", in)
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	t.Run("country token", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "TH", CountryToken("Bangkok (TH)"))
		assert.Equal(t, "Bangkok", CountryToken("Bangkok")) // no code: whole location
		assert.Equal(t, "", CountryToken(""))
		assert.Equal(t, "", CountryToken("Unknown"))
		assert.Equal(t, "Bangkok (bkk)", CountryToken("Bangkok (bkk)")) // lowercase code is not a country token
	})

	t.Run("city token", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Bangkok", CityToken("Bangkok (TH)"))
		assert.Equal(t, "Kuala Lumpur", CityToken("Kuala Lumpur (MY)"))
		assert.Equal(t, "Bangkok (bkk)", CityToken("Bangkok (bkk)"))
		assert.Equal(t, "", CityToken("Unknown"))
		assert.Equal(t, "", CityToken("  "))
	})
}

func TestDemonyms(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Demonyms("gb"), "scotland")
	assert.Contains(t, Demonyms("GB"), "uk")
	assert.Contains(t, Demonyms("my"), "malaysia")
	assert.Nil(t, Demonyms("zz"))
}

func TestLoadOverrides(t *testing.T) {
	// Mutates package tables; not parallel with lookup tests above by
	// design, so only add keys no other test reads.
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	data := []byte("aliases:\n  blighty: GB\n  persia: IR\ndemonyms:\n  xk:\n    - kosovo\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, LoadOverrides(path))
	assert.Equal(t, "GB", CanonicalCountry("Blighty"))
	assert.Equal(t, "IR", CanonicalCountry("PERSIA"))
	assert.Equal(t, []string{"kosovo"}, Demonyms("XK"))

	t.Run("missing file errors", func(t *testing.T) {
		assert.Error(t, LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")))
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("aliases: [not a map"), 0o644))
		assert.Error(t, LoadOverrides(bad))
	})
}
