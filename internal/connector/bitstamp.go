package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// bitstampAdapter fetches market data from the Bitstamp public API.
type bitstampAdapter struct {
	t       transport
	baseURL string
}

// NewBitstamp creates the Bitstamp adapter.
func NewBitstamp(deps Deps) (Adapter, error) {
	return &bitstampAdapter{
		t:       newTransport("bitstamp", deps),
		baseURL: "https://www.bitstamp.net",
	}, nil
}

func (a *bitstampAdapter) ID() string { return "bitstamp" }
func (a *bitstampAdapter) HasTicker() bool { return true }
func (a *bitstampAdapter) HasOrderBook() bool { return true }

func (a *bitstampAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.40, MakerPercent: 0.30, Defined: true}
}

func (a *bitstampAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp bitstampTickerResponse
	url := fmt.Sprintf("%s/api/v2/ticker/%s/", a.baseURL, bitstampPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}

	last, err := strconv.ParseFloat(resp.Last, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("invalid last price %q: %w", resp.Last, err)
	}
	return Ticker{Last: last}, nil
}

func (a *bitstampAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp bitstampBookResponse
	url := fmt.Sprintf("%s/api/v2/order_book/%s/", a.baseURL, bitstampPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}

	book := OrderBook{
		Bids: levelsFromStrings(resp.Bids),
		Asks: levelsFromStrings(resp.Asks),
	}
	if depth > 0 {
		if len(book.Bids) > depth {
			book.Bids = book.Bids[:depth]
		}
		if len(book.Asks) > depth {
			book.Asks = book.Asks[:depth]
		}
	}
	return book, nil
}

func (a *bitstampAdapter) LoadMarkets(ctx context.Context) error {
	var resp []bitstampPairInfo
	url := a.baseURL + "/api/v2/trading-pairs-info/"
	return a.t.getJSON(ctx, url, &resp)
}

// bitstampPair normalizes a canonical pair to Bitstamp's lowercase compact
// form: "BTC/USD" becomes "btcusd".
func bitstampPair(pair string) string {
	return strings.ToLower(compactPair(pair))
}

type bitstampTickerResponse struct {
	Last string `json:"last"`
	Bid  string `json:"bid"`
	Ask  string `json:"ask"`
}

type bitstampBookResponse struct {
	Timestamp string     `json:"timestamp"`
	Bids      [][]string `json:"bids"` // [price, amount]
	Asks      [][]string `json:"asks"`
}

type bitstampPairInfo struct {
	Name    string `json:"name"`
	Trading string `json:"trading"`
}
