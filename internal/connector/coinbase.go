package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// coinbaseAdapter fetches market data from the Coinbase Exchange API.
type coinbaseAdapter struct {
	t       transport
	baseURL string
}

// NewCoinbase creates the Coinbase adapter.
func NewCoinbase(deps Deps) (Adapter, error) {
	return &coinbaseAdapter{
		t:       newTransport("coinbase", deps),
		baseURL: "https://api.exchange.coinbase.com",
	}, nil
}

func (a *coinbaseAdapter) ID() string { return "coinbase" }
func (a *coinbaseAdapter) HasTicker() bool { return true }
func (a *coinbaseAdapter) HasOrderBook() bool { return true }

func (a *coinbaseAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.60, MakerPercent: 0.40, Defined: true}
}

func (a *coinbaseAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp coinbaseTickerResponse
	url := fmt.Sprintf("%s/products/%s/ticker", a.baseURL, dashPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}

	last, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("invalid price %q: %w", resp.Price, err)
	}
	return Ticker{Last: last}, nil
}

func (a *coinbaseAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	// Level 2 returns the full aggregated book; callers truncate to the
	// depth they need.
	var resp coinbaseBookResponse
	url := fmt.Sprintf("%s/products/%s/book?level=2", a.baseURL, dashPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}

	book := OrderBook{
		Bids: levelsFromAny(resp.Bids),
		Asks: levelsFromAny(resp.Asks),
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

func (a *coinbaseAdapter) LoadMarkets(ctx context.Context) error {
	var resp []coinbaseProduct
	url := a.baseURL + "/products"
	return a.t.getJSON(ctx, url, &resp)
}

// dashPair normalizes a canonical pair to Coinbase's dash form:
// "BTC/USD" becomes "BTC-USD".
func dashPair(pair string) string {
	return strings.ToUpper(strings.ReplaceAll(pair, "/", "-"))
}

type coinbaseTickerResponse struct {
	Price  string `json:"price"`
	Bid    string `json:"bid"`
	Ask    string `json:"ask"`
	Volume string `json:"volume"`
}

type coinbaseBookResponse struct {
	Sequence int64           `json:"sequence"`
	Bids     [][]interface{} `json:"bids"` // [price, size, num_orders]
	Asks     [][]interface{} `json:"asks"`
}

type coinbaseProduct struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
