package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// krakenAdapter fetches market data from the Kraken public API. Kraken
// wraps every payload in an {error, result} envelope and reports errors as
// strings, so the adapter inspects both.
type krakenAdapter struct {
	t       transport
	baseURL string
}

// NewKraken creates the Kraken adapter.
func NewKraken(deps Deps) (Adapter, error) {
	return &krakenAdapter{
		t:       newTransport("kraken", deps),
		baseURL: "https://api.kraken.com",
	}, nil
}

func (a *krakenAdapter) ID() string { return "kraken" }
func (a *krakenAdapter) HasTicker() bool { return true }
func (a *krakenAdapter) HasOrderBook() bool { return true }

func (a *krakenAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.26, MakerPercent: 0.16, Defined: true}
}

func (a *krakenAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp krakenTickerResponse
	url := fmt.Sprintf("%s/0/public/Ticker?pair=%s", a.baseURL, krakenPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}
	if err := krakenError(resp.Error); err != nil {
		return Ticker{}, err
	}

	// Kraken keys the result by its internal pair name; take the first.
	for _, tick := range resp.Result {
		if len(tick.Close) == 0 {
			break
		}
		last, err := strconv.ParseFloat(tick.Close[0], 64)
		if err != nil {
			return Ticker{}, fmt.Errorf("invalid close price %q: %w", tick.Close[0], err)
		}
		return Ticker{Last: last}, nil
	}
	return Ticker{}, ErrPairNotSupported
}

func (a *krakenAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp krakenDepthResponse
	url := fmt.Sprintf("%s/0/public/Depth?pair=%s&count=%d", a.baseURL, krakenPair(pair), depth)
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}
	if err := krakenError(resp.Error); err != nil {
		return OrderBook{}, err
	}

	for _, book := range resp.Result {
		return OrderBook{
			Bids: levelsFromAny(book.Bids),
			Asks: levelsFromAny(book.Asks),
		}, nil
	}
	return OrderBook{}, ErrNoOrderBook
}

func (a *krakenAdapter) LoadMarkets(ctx context.Context) error {
	var resp krakenAssetPairsResponse
	url := a.baseURL + "/0/public/AssetPairs"
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return err
	}
	return krakenError(resp.Error)
}

// krakenPair maps a canonical pair to Kraken's naming: BTC is XBT and the
// separator is dropped, so "BTC/USD" becomes "XBTUSD".
func krakenPair(pair string) string {
	pair = compactPair(pair)
	return strings.ReplaceAll(pair, "BTC", "XBT")
}

func krakenError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	if strings.Contains(errs[0], "Unknown asset pair") {
		return ErrPairNotSupported
	}
	return fmt.Errorf("kraken API error: %s", strings.Join(errs, "; "))
}

type krakenTickerResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Close []string `json:"c"` // [price, lot volume]
	} `json:"result"`
}

type krakenDepthResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Asks [][]interface{} `json:"asks"` // [price, volume, timestamp]
		Bids [][]interface{} `json:"bids"`
	} `json:"result"`
}

type krakenAssetPairsResponse struct {
	Error  []string               `json:"error"`
	Result map[string]interface{} `json:"result"`
}
