package connector

import (
	"context"
	"sync"
)

// StaticAdapter serves fixture data without touching the network. The
// orchestrator tests and local development mode run against it.
type StaticAdapter struct {
	VenueID     string
	TickerOK    bool
	OrderBookOK bool
	Fee         FeeDescriptor

	mu      sync.RWMutex
	Tickers map[string]float64   // pair -> last price
	Books   map[string]OrderBook // pair -> depth

	TickerErr    error
	OrderBookErr error
	MarketsErr   error
}

// NewStatic creates a fixture adapter with ticker and order-book support.
func NewStatic(id string) *StaticAdapter {
	return &StaticAdapter{
		VenueID:     id,
		TickerOK:    true,
		OrderBookOK: true,
		Tickers:     make(map[string]float64),
		Books:       make(map[string]OrderBook),
	}
}

func (a *StaticAdapter) ID() string { return a.VenueID }

func (a *StaticAdapter) HasTicker() bool { return a.TickerOK }

func (a *StaticAdapter) HasOrderBook() bool { return a.OrderBookOK }

func (a *StaticAdapter) Fees() FeeDescriptor { return a.Fee }

// SetTicker installs a fixture price for a pair.
func (a *StaticAdapter) SetTicker(pair string, last float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Tickers[pair] = last
}

// SetBook installs a fixture order book for a pair.
func (a *StaticAdapter) SetBook(pair string, book OrderBook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Books[pair] = book
}

func (a *StaticAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	// Mirrors the live transports, which surface ctx errors from the client.
	if err := ctx.Err(); err != nil {
		return Ticker{}, err
	}
	if a.TickerErr != nil {
		return Ticker{}, a.TickerErr
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	last, ok := a.Tickers[pair]
	if !ok {
		return Ticker{}, ErrPairNotSupported
	}
	return Ticker{Last: last}, nil
}

func (a *StaticAdapter) FetchOrderBook(ctx context.Context, pair string, _ int) (OrderBook, error) {
	if err := ctx.Err(); err != nil {
		return OrderBook{}, err
	}
	if a.OrderBookErr != nil {
		return OrderBook{}, a.OrderBookErr
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	book, ok := a.Books[pair]
	if !ok {
		return OrderBook{}, ErrNoOrderBook
	}
	return book, nil
}

func (a *StaticAdapter) LoadMarkets(context.Context) error { return a.MarketsErr }
