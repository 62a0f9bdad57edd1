package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/cache"
)

// StartRefresh runs FetchAll for each asset on a fixed interval until ctx
// is cancelled. It exists to keep the cache warm for interactive callers;
// the pipeline works identically without it.
func (f *Fetcher) StartRefresh(ctx context.Context, interval time.Duration, assets ...string) {
	if interval <= 0 || len(assets) == 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("refresh loop stopped")
				return
			case <-ticker.C:
				for _, asset := range assets {
					asset = strings.ToUpper(asset)
					// Skip the result cache so the refresh actually
					// reaches upstream.
					f.store.Delete(cache.Key("venues", asset))
					if _, err := f.FetchAll(ctx, asset); err != nil {
						log.Warn().Err(err).Str("asset", asset).Msg("background refresh failed")
					}
				}
			}
		}
	}()
}
