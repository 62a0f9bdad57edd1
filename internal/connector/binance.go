package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// binanceAdapter fetches market data from the Binance exchange-native API.
type binanceAdapter struct {
	t       transport
	baseURL string

	mu      sync.RWMutex
	symbols map[string]bool
}

// NewBinance creates the Binance adapter.
func NewBinance(deps Deps) (Adapter, error) {
	return &binanceAdapter{
		t:       newTransport("binance", deps),
		baseURL: "https://api.binance.com",
	}, nil
}

func (a *binanceAdapter) ID() string { return "binance" }
func (a *binanceAdapter) HasTicker() bool { return true }
func (a *binanceAdapter) HasOrderBook() bool { return true }

func (a *binanceAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.10, MakerPercent: 0.10, Defined: true}
}

func (a *binanceAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	symbol := compactPair(pair)

	a.mu.RLock()
	loaded := a.symbols != nil
	listed := a.symbols[symbol]
	a.mu.RUnlock()
	if loaded && !listed {
		return Ticker{}, ErrPairNotSupported
	}

	var resp binanceTickerResponse
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", a.baseURL, symbol)
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}

	last, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("invalid price %q: %w", resp.Price, err)
	}
	return Ticker{Last: last}, nil
}

func (a *binanceAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp binanceDepthResponse
	url := fmt.Sprintf("%s/api/v3/depth?symbol=%s&limit=%d", a.baseURL, compactPair(pair), depth)
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}

	return OrderBook{
		Bids: levelsFromStrings(resp.Bids),
		Asks: levelsFromStrings(resp.Asks),
	}, nil
}

func (a *binanceAdapter) LoadMarkets(ctx context.Context) error {
	var resp binanceExchangeInfoResponse
	url := a.baseURL + "/api/v3/exchangeInfo"
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return err
	}

	symbols := make(map[string]bool, len(resp.Symbols))
	for _, s := range resp.Symbols {
		if s.Status == "TRADING" {
			symbols[s.Symbol] = true
		}
	}

	a.mu.Lock()
	a.symbols = symbols
	a.mu.Unlock()
	return nil
}

// compactPair strips pair separators: "BTC/USDT" and "BTC-USDT" both become
// "BTCUSDT".
func compactPair(pair string) string {
	pair = strings.ReplaceAll(pair, "/", "")
	pair = strings.ReplaceAll(pair, "-", "")
	return strings.ToUpper(pair)
}

type binanceTickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type binanceDepthResponse struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"` // [price, quantity]
	Asks         [][]string `json:"asks"` // [price, quantity]
}

type binanceExchangeInfoResponse struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}
