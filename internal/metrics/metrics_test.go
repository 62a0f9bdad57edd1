package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAreSafeBeforeInitialize(t *testing.T) {
	// Must not panic while the registry is nil.
	RecordFetch("kraken", "ok", time.Second)
	RecordCache("price", true)
	RecordDiscovery(5)
	RecordComparison()
	RecordSimulation()
}

func TestInitializeAndRecord(t *testing.T) {
	reg := Initialize()
	require.NotNil(t, reg)

	// Repeated calls return the same registry without re-registering.
	assert.Same(t, reg, Initialize())

	RecordFetch("kraken", "ok", 250*time.Millisecond)
	RecordFetch("kraken", "error", time.Second)
	RecordCache("venues", true)
	RecordCache("venues", false)
	RecordDiscovery(7)
	RecordComparison()
	RecordSimulation()

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.FetchOutcomes.WithLabelValues("kraken", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.FetchOutcomes.WithLabelValues("kraken", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheHits.WithLabelValues("venues")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheMisses.WithLabelValues("venues")))
	assert.Equal(t, 7.0, testutil.ToFloat64(reg.DiscoveredVenues))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ComparisonRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SimulationRuns))
}
