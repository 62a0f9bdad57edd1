// Package orchestrator drives the exchange aggregation pipeline: venue
// discovery, batched rate-limited fetching, health bookkeeping, and snapshot
// caching.
package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/cache"
	"github.com/btccompare/venuecost/internal/connector"
	"github.com/btccompare/venuecost/internal/registry"
)

// Discovery enumerates the connector registry and keeps the usable adapter
// set. Discovery is expensive (one adapter instance per candidate venue plus
// its market metadata), so results are cached for an hour.
type Discovery struct {
	deps      connector.Deps
	store     cache.Store
	factories map[string]connector.Factory

	mu           sync.Mutex
	adapters     []connector.Adapter
	totalSeen    int
	discoveredAt time.Time
}

// NewDiscovery creates a discovery service over the standard connector
// registry, sharing the given adapter deps.
func NewDiscovery(deps connector.Deps, store cache.Store) *Discovery {
	return &Discovery{deps: deps, store: store, factories: connector.Factories}
}

// NewDiscoveryWithFactories creates a discovery service over an explicit
// factory set. Tests use this to run the pipeline against fixtures.
func NewDiscoveryWithFactories(deps connector.Deps, store cache.Store, factories map[string]connector.Factory) *Discovery {
	return &Discovery{deps: deps, store: store, factories: factories}
}

// Discover returns every usable venue adapter: registered, not blocklisted,
// constructable, and ticker-capable. Construction failures are logged and
// the venue omitted; one bad adapter must never abort discovery. The second
// return value is the total number of registered candidates.
func (d *Discovery) Discover(ctx context.Context) ([]connector.Adapter, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.adapters != nil && time.Since(d.discoveredAt) <= cache.DiscoveryTTL {
		return d.adapters, d.totalSeen
	}

	ids := make([]string, 0, len(d.factories))
	for id := range d.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	adapters := make([]connector.Adapter, 0, len(ids))

	for _, id := range ids {
		if registry.IsBlocked(id) {
			log.Debug().Str("venue", id).Str("reason", registry.Blocklist[id]).Msg("venue blocklisted")
			continue
		}

		adapter, err := d.factories[id](d.deps)
		if err != nil {
			log.Warn().Err(err).Str("venue", id).Msg("adapter construction failed, venue omitted")
			continue
		}
		if !adapter.HasTicker() {
			log.Debug().Str("venue", id).Msg("venue lacks ticker support, omitted")
			continue
		}

		// Market metadata is best effort; adapters that cannot load it
		// still serve tickers and learn pair support from responses.
		if err := adapter.LoadMarkets(ctx); err != nil {
			log.Warn().Err(err).Str("venue", id).Msg("market metadata load failed")
		}

		adapters = append(adapters, adapter)
	}

	d.adapters = adapters
	d.totalSeen = len(ids)
	d.discoveredAt = time.Now()

	// Adapter instances live here; the shared store only carries the ID
	// list so operators can inspect what discovery produced.
	discovered := make([]string, 0, len(adapters))
	for _, a := range adapters {
		discovered = append(discovered, a.ID())
	}
	d.store.Set(cache.Key("discovery", "all"), discovered)

	log.Info().Int("usable", len(adapters)).Int("candidates", len(ids)).Msg("venue discovery complete")
	return d.adapters, d.totalSeen
}

// Invalidate forces the next Discover call to re-enumerate.
func (d *Discovery) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.adapters = nil
	d.store.Delete(cache.Key("discovery", "all"))
}
