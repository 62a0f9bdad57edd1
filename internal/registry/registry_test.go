package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	kraken, ok := Lookup("kraken")
	require.True(t, ok)
	assert.Equal(t, "Kraken", kraken.Name)
	assert.True(t, kraken.Featured)

	_, ok = Lookup("unlisted")
	assert.False(t, ok)
}

func TestIsBlocked(t *testing.T) {
	assert.True(t, IsBlocked("ftx"))
	assert.True(t, IsBlocked("hitbtc"))
	assert.False(t, IsBlocked("kraken"))
}

func TestVenue_SupportsAsset(t *testing.T) {
	gemini, ok := Lookup("gemini")
	require.True(t, ok)

	assert.True(t, gemini.SupportsAsset("BTC"))
	assert.False(t, gemini.SupportsAsset("SOL"))
}

func TestVenue_DepositRate(t *testing.T) {
	coinbase, ok := Lookup("coinbase")
	require.True(t, ok)

	assert.Equal(t, 0.0399, coinbase.DepositRate("card"))
	assert.Zero(t, coinbase.DepositRate("ach"))
	assert.Zero(t, coinbase.DepositRate("carrier-pigeon"))
	assert.Zero(t, Venue{}.DepositRate("card"))
}

// Featured entries are hand-maintained; these invariants catch data-entry
// mistakes in the curated table.
func TestFeatured_TableInvariants(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range Featured {
		assert.False(t, seen[v.ID], "duplicate venue ID %s", v.ID)
		seen[v.ID] = true

		assert.True(t, v.Featured, "%s: featured table entry must be featured", v.ID)
		assert.NotEmpty(t, v.Name, "%s: name required", v.ID)
		assert.Contains(t, v.QuoteCurrency, "%s", "%s: pair template must take an asset", v.ID)
		for _, fallback := range v.FallbackQuotes {
			assert.Contains(t, fallback, "%s", "%s: fallback template must take an asset", v.ID)
		}
		assert.False(t, IsBlocked(v.ID), "%s: featured venue cannot be blocklisted", v.ID)
		assert.GreaterOrEqual(t, v.SpreadEstimate, 0.0, "%s: spread estimate", v.ID)

		require.NotNil(t, v.Fees, "%s: curated fees required", v.ID)
		assert.Greater(t, v.Fees.TakerPercent, 0.0, "%s: taker fee", v.ID)

		// Tiers must be contiguous from zero with fees that never rise
		// as volume grows.
		for i, tier := range v.Fees.Tiers {
			assert.Less(t, tier.MinVolume, tier.MaxVolume, "%s tier %d: empty range", v.ID, i)
			if i == 0 {
				assert.Zero(t, tier.MinVolume, "%s: first tier must start at 0", v.ID)
			} else {
				prev := v.Fees.Tiers[i-1]
				assert.Equal(t, prev.MaxVolume, tier.MinVolume, "%s tier %d: gap in volume ranges", v.ID, i)
				assert.LessOrEqual(t, tier.TakerPercent, prev.TakerPercent, "%s tier %d: taker fee rose with volume", v.ID, i)
				assert.LessOrEqual(t, tier.MakerPercent, prev.MakerPercent, "%s tier %d: maker fee rose with volume", v.ID, i)
			}
		}
	}
}

func TestDetectRegion(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  string
	}{
		{name: "israel wins outright", codes: []string{"US", "IL"}, want: RegionIsrael},
		{name: "single bucket", codes: []string{"LU", "GB"}, want: RegionEurope},
		{name: "lowercase codes", codes: []string{"us"}, want: RegionNorthAmerica},
		{name: "multiple buckets", codes: []string{"MT", "US"}, want: RegionGlobal},
		{name: "unknown codes", codes: []string{"VG", "KY"}, want: RegionOther},
		{name: "unknown plus known", codes: []string{"VG", "JP"}, want: RegionAsia},
		{name: "empty", codes: nil, want: RegionOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectRegion(tc.codes))
		})
	}
}

func TestFormatCountry(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  string
	}{
		{name: "empty", codes: nil, want: "Unknown"},
		{name: "single", codes: []string{"US"}, want: "United States"},
		{name: "three names", codes: []string{"MT", "FR", "IT"}, want: "Malta, France, Italy"},
		{name: "truncated", codes: []string{"GB", "DE", "FR", "IT", "ES"}, want: "United Kingdom, Germany, France +2 more"},
		{name: "unknown code passes through", codes: []string{"ZZ"}, want: "ZZ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatCountry(tc.codes))
		})
	}
}
