package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/cache"
	"github.com/btccompare/venuecost/internal/connector"
	"github.com/btccompare/venuecost/internal/health"
	"github.com/btccompare/venuecost/internal/metrics"
	"github.com/btccompare/venuecost/internal/models"
	"github.com/btccompare/venuecost/internal/registry"
)

// Config tunes the fetch pipeline. Zero values fall back to defaults.
type Config struct {
	BatchSize    int
	BatchDelay   time.Duration
	FetchTimeout time.Duration
	BookDepth    int
}

// DefaultConfig returns the production fetch settings: batches of 10 with a
// short pause between batches, 10s per-venue timeout, top 20 book levels.
func DefaultConfig() Config {
	return Config{
		BatchSize:    10,
		BatchDelay:   500 * time.Millisecond,
		FetchTimeout: 10 * time.Second,
		BookDepth:    20,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = def.BatchDelay
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = def.FetchTimeout
	}
	if c.BookDepth <= 0 {
		c.BookDepth = def.BookDepth
	}
	return c
}

// Fetcher runs the per-asset fetch cycle across all discovered venues.
type Fetcher struct {
	discovery *Discovery
	store     cache.Store
	health    *health.Monitor
	cfg       Config
}

// NewFetcher wires the fetch pipeline. The store and health monitor are
// shared with concurrent fetch tasks and must be the process-wide instances.
func NewFetcher(discovery *Discovery, store cache.Store, monitor *health.Monitor, cfg Config) *Fetcher {
	return &Fetcher{
		discovery: discovery,
		store:     store,
		health:    monitor,
		cfg:       cfg.withDefaults(),
	}
}

// FetchAll fetches every discovered venue's data for one asset. Venue
// failures are always local: the returned result carries both successful
// and failed venue records, ordered featured-first, then ok-before-error,
// then alphabetically. Results are cached for the price TTL.
func (f *Fetcher) FetchAll(ctx context.Context, asset string) (models.FetchResult, error) {
	asset = strings.ToUpper(asset)

	resultKey := cache.Key("venues", asset)
	if cached, ok := f.store.Get(resultKey, cache.PriceTTL); ok {
		var result models.FetchResult
		if err := cache.Decode(cached, &result); err == nil {
			metrics.RecordCache("venues", true)
			return result, nil
		}
	}
	metrics.RecordCache("venues", false)

	// Upstream fetches run to completion even when the caller goes away;
	// the results still land in the cache for the next request, and a
	// disconnect must not register as a venue failure.
	fetchCtx := context.WithoutCancel(ctx)

	adapters, totalDiscovered := f.discovery.Discover(fetchCtx)
	metrics.RecordDiscovery(len(adapters))

	// Down venues sit out the cycle unless featured; featured venues are
	// always retried so they can recover.
	candidates := make([]connector.Adapter, 0, len(adapters))
	for _, adapter := range adapters {
		_, featured := registry.Lookup(adapter.ID())
		if !featured && f.health.ShouldHide(adapter.ID()) {
			log.Debug().Str("venue", adapter.ID()).Msg("venue hidden by health monitor")
			continue
		}
		candidates = append(candidates, adapter)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		_, fi := registry.Lookup(candidates[i].ID())
		_, fj := registry.Lookup(candidates[j].ID())
		if fi != fj {
			return fi
		}
		return candidates[i].ID() < candidates[j].ID()
	})

	type outcome struct {
		record models.VenueRecord
		keep   bool
	}
	outcomes := make([]outcome, len(candidates))

	for start := 0; start < len(candidates); start += f.cfg.BatchSize {
		end := start + f.cfg.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				record, keep := f.fetchVenue(fetchCtx, candidates[i], asset)
				outcomes[i] = outcome{record: record, keep: keep}
			}(i)
		}
		wg.Wait()

		if end < len(candidates) && f.cfg.BatchDelay > 0 {
			time.Sleep(f.cfg.BatchDelay)
		}
	}

	venues := make([]models.VenueRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.keep {
			venues = append(venues, o.record)
		}
	}

	sort.SliceStable(venues, func(i, j int) bool {
		if venues[i].Featured != venues[j].Featured {
			return venues[i].Featured
		}
		iOK, jOK := venues[i].Status == models.VenueStatusOK, venues[j].Status == models.VenueStatusOK
		if iOK != jOK {
			return iOK
		}
		return venues[i].Name < venues[j].Name
	})

	result := models.FetchResult{
		Venues:          venues,
		TotalDiscovered: totalDiscovered,
		Asset:           asset,
		FetchedAt:       time.Now(),
	}
	f.store.Set(resultKey, result)

	log.Info().
		Str("asset", asset).
		Int("venues", len(venues)).
		Int("discovered", totalDiscovered).
		Msg("fetch cycle complete")
	return result, nil
}

// fetchVenue builds one venue's snapshot. The bool result is false only for
// non-featured venues that do not list the asset; those are dropped from
// the final list. Featured failures are always kept so callers can render
// degraded state.
func (f *Fetcher) fetchVenue(ctx context.Context, adapter connector.Adapter, asset string) (models.VenueRecord, bool) {
	started := time.Now()
	venueCtx, cancel := context.WithTimeout(ctx, f.cfg.FetchTimeout)
	defer cancel()

	id := adapter.ID()
	ven, featured := registry.Lookup(id)

	record := models.VenueRecord{
		SnapshotID: uuid.NewString(),
		ID:         id,
		Featured:   featured,
		FetchedAt:  started,
	}
	if featured {
		record.Name = ven.Name
		record.Country = registry.FormatCountry(ven.Countries)
		record.Region = registry.DetectRegion(ven.Countries)
	} else {
		record.Name = strings.ToUpper(id[:1]) + id[1:]
		record.Country = registry.FormatCountry(nil)
		record.Region = registry.RegionOther
	}

	if featured && len(ven.SupportedAssets) > 0 && !ven.SupportsAsset(asset) {
		record.Status = models.VenueStatusError
		record.Error = fmt.Sprintf("asset %s not supported", asset)
		record.Health = f.health.Status(id)
		record.ConsecutiveFailures = f.health.ConsecutiveFailures(id)
		return record, true
	}

	price, pair, fetchErr := f.fetchPrice(venueCtx, adapter, ven, featured, asset)
	if fetchErr != nil {
		f.health.RecordFailure(id, fetchErr.Error())
		metrics.RecordFetch(id, "error", time.Since(started))

		record.Status = models.VenueStatusError
		record.Error = fetchErr.Error()
		record.Health = f.health.Status(id)
		record.ConsecutiveFailures = f.health.ConsecutiveFailures(id)

		// Non-featured venues that simply do not list the asset are
		// noise, not failures worth surfacing.
		if !featured && errors.Is(fetchErr, connector.ErrPairNotSupported) {
			return record, false
		}
		return record, true
	}

	f.health.RecordSuccess(id)
	metrics.RecordFetch(id, "ok", time.Since(started))
	f.store.Set(cache.Key("price", asset, id), price)

	record.Status = models.VenueStatusOK
	record.Price = &price
	record.Pair = pair
	record.Health = f.health.Status(id)

	if adapter.HasOrderBook() {
		if book, err := adapter.FetchOrderBook(venueCtx, pair, f.cfg.BookDepth); err != nil {
			// Tolerated: simulation and spread fields stay absent.
			log.Debug().Err(err).Str("venue", id).Msg("order book unavailable")
		} else if summary := summarizeBook(book); summary != nil {
			record.OrderBook = summary
			f.store.Set(cache.Key("book", asset, id), *summary)
		}
	}

	record.Fees = f.assembleFees(adapter, ven, featured)
	f.store.Set(cache.Key("fees", id), record.Fees)

	return record, true
}

// fetchPrice tries the venue's primary pair then each fallback in order
// until one yields a positive price.
func (f *Fetcher) fetchPrice(ctx context.Context, adapter connector.Adapter, ven registry.Venue, featured bool, asset string) (float64, string, error) {
	var lastErr error

	for _, pair := range pairCandidates(ven, featured, asset) {
		ticker, err := adapter.FetchTicker(ctx, pair)
		if err != nil {
			lastErr = err
			continue
		}
		if ticker.Last > 0 {
			return ticker.Last, pair, nil
		}
		lastErr = fmt.Errorf("no positive price for %s", pair)
	}

	if lastErr == nil {
		lastErr = connector.ErrPairNotSupported
	}
	return 0, "", lastErr
}

// pairCandidates expands the venue's pair templates for an asset. Unknown
// venues get generic candidates.
func pairCandidates(ven registry.Venue, featured bool, asset string) []string {
	if !featured || ven.QuoteCurrency == "" {
		return []string{asset + "/USD", asset + "/USDT"}
	}

	pairs := make([]string, 0, 1+len(ven.FallbackQuotes))
	pairs = append(pairs, fmt.Sprintf(ven.QuoteCurrency, asset))
	for _, template := range ven.FallbackQuotes {
		pairs = append(pairs, fmt.Sprintf(template, asset))
	}
	return pairs
}

// assembleFees picks the venue's fee schedule: the curated manual override
// when present, else the adapter's advertised fees, else a placeholder.
func (f *Fetcher) assembleFees(adapter connector.Adapter, ven registry.Venue, featured bool) *models.FeeData {
	if featured && ven.Fees != nil {
		return ven.Fees
	}
	if desc := adapter.Fees(); desc.Defined {
		return &models.FeeData{
			TakerPercent: desc.TakerPercent,
			MakerPercent: desc.MakerPercent,
		}
	}
	// Placeholder for venues that publish nothing programmatic.
	return &models.FeeData{TakerPercent: 0.25, MakerPercent: 0.15}
}
