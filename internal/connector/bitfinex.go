package connector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/btccompare/venuecost/internal/models"
)

// bitfinexAdapter fetches market data from the Bitfinex v2 public API.
// Bitfinex answers with positional float arrays rather than objects, and a
// single book response carries both sides, with negative amounts marking
// asks.
type bitfinexAdapter struct {
	t       transport
	baseURL string
}

// NewBitfinex creates the Bitfinex adapter.
func NewBitfinex(deps Deps) (Adapter, error) {
	return &bitfinexAdapter{
		t:       newTransport("bitfinex", deps),
		baseURL: "https://api-pub.bitfinex.com",
	}, nil
}

func (a *bitfinexAdapter) ID() string { return "bitfinex" }
func (a *bitfinexAdapter) HasTicker() bool { return true }
func (a *bitfinexAdapter) HasOrderBook() bool { return true }

func (a *bitfinexAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.20, MakerPercent: 0.10, Defined: true}
}

func (a *bitfinexAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp []float64
	url := fmt.Sprintf("%s/v2/ticker/%s", a.baseURL, bitfinexPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}

	// [bid, bidSize, ask, askSize, dailyChange, dailyChangeRel, last, ...]
	if len(resp) < 7 {
		return Ticker{}, ErrPairNotSupported
	}
	return Ticker{Last: resp[6]}, nil
}

func (a *bitfinexAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp [][]float64
	url := fmt.Sprintf("%s/v2/book/%s/P0?len=%d", a.baseURL, bitfinexPair(pair), bitfinexBookLen(depth))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}

	var book OrderBook
	for _, row := range resp {
		// [price, count, amount]
		if len(row) < 3 {
			continue
		}
		price, amount := row[0], row[2]
		if amount > 0 {
			book.Bids = append(book.Bids, models.BookLevel{Price: price, Quantity: amount})
		} else if amount < 0 {
			book.Asks = append(book.Asks, models.BookLevel{Price: price, Quantity: -amount})
		}
	}

	sort.Slice(book.Asks, func(i, j int) bool { return book.Asks[i].Price < book.Asks[j].Price })
	sort.Slice(book.Bids, func(i, j int) bool { return book.Bids[i].Price > book.Bids[j].Price })
	return book, nil
}

func (a *bitfinexAdapter) LoadMarkets(ctx context.Context) error {
	var resp [][]string
	url := a.baseURL + "/v2/conf/pub:list:pair:exchange"
	return a.t.getJSON(ctx, url, &resp)
}

// bitfinexPair normalizes a canonical pair to the v2 trading symbol:
// "BTC/USD" becomes "tBTCUSD". Pairs already prefixed are kept as-is.
func bitfinexPair(pair string) string {
	if strings.HasPrefix(pair, "t") {
		return pair
	}
	return "t" + compactPair(pair)
}

// bitfinexBookLen snaps a requested depth to the API's allowed len values.
func bitfinexBookLen(depth int) int {
	for _, allowed := range []int{1, 25, 100, 250} {
		if depth <= allowed {
			return allowed
		}
	}
	return 250
}
