// Package connector abstracts market-data access to external trading venues.
// Every venue is reached through the same Adapter shape, so the aggregation
// pipeline never depends on a concrete exchange API.
package connector

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/btccompare/venuecost/internal/models"
	"github.com/btccompare/venuecost/internal/net/breaker"
	"github.com/btccompare/venuecost/internal/net/ratelimit"
)

var (
	// ErrPairNotSupported means the venue does not list the requested pair.
	ErrPairNotSupported = errors.New("connector: pair not supported")
	// ErrNoOrderBook means the venue cannot serve depth for the pair.
	ErrNoOrderBook = errors.New("connector: order book unavailable")
	// ErrUnknownVenue means no factory is registered under the given ID.
	ErrUnknownVenue = errors.New("connector: unknown venue")
)

// Ticker is a venue's last-trade quote for one pair.
type Ticker struct {
	Last float64 `json:"last"`
}

// OrderBook holds raw depth levels: asks ascending, bids descending.
type OrderBook struct {
	Bids []models.BookLevel `json:"bids"`
	Asks []models.BookLevel `json:"asks"`
}

// FeeDescriptor is the trading-fee schedule a venue advertises through its
// API. Defined is false when the venue publishes nothing programmatic.
type FeeDescriptor struct {
	TakerPercent float64 `json:"taker_percent"`
	MakerPercent float64 `json:"maker_percent"`
	Defined      bool    `json:"defined"`
}

// Adapter is the per-venue market-data contract. Any connector exposing
// this shape satisfies the pipeline; implementations must be safe for
// concurrent use.
type Adapter interface {
	ID() string
	HasTicker() bool
	HasOrderBook() bool
	FetchTicker(ctx context.Context, pair string) (Ticker, error)
	FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error)
	LoadMarkets(ctx context.Context) error
	Fees() FeeDescriptor
}

// Deps carries the shared infrastructure every adapter uses: one HTTP
// client, the per-venue rate limiter, and the per-venue circuit breakers.
type Deps struct {
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
	Breakers   *breaker.Set
}

// DefaultDeps builds adapter dependencies with the standard 10s upstream
// timeout and a conservative public-API rate limit.
func DefaultDeps() Deps {
	return Deps{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Limiter:    ratelimit.NewLimiter(5, 10),
		Breakers:   breaker.NewSet(),
	}
}

// Factory constructs one venue adapter. Construction may fail (bad config,
// unreachable metadata); discovery logs and skips such venues.
type Factory func(deps Deps) (Adapter, error)

// Factories is the explicit venue registry. Venue enumeration iterates this
// map; there is deliberately no reflective adapter lookup.
var Factories = map[string]Factory{
	"binance":  NewBinance,
	"kraken":   NewKraken,
	"coinbase": NewCoinbase,
	"okx":      NewOKX,
	"bitstamp": NewBitstamp,
	"gemini":   NewGemini,
	"bitfinex": NewBitfinex,
}

// IDs returns every registered venue ID in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(Factories))
	for id := range Factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New constructs the adapter registered under id.
func New(id string, deps Deps) (Adapter, error) {
	factory, ok := Factories[id]
	if !ok {
		return nil, ErrUnknownVenue
	}
	return factory(deps)
}
