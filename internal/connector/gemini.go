package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/btccompare/venuecost/internal/models"
)

// geminiAdapter fetches market data from the Gemini public API. Gemini
// reports book levels as objects rather than arrays.
type geminiAdapter struct {
	t       transport
	baseURL string
}

// NewGemini creates the Gemini adapter.
func NewGemini(deps Deps) (Adapter, error) {
	return &geminiAdapter{
		t:       newTransport("gemini", deps),
		baseURL: "https://api.gemini.com",
	}, nil
}

func (a *geminiAdapter) ID() string { return "gemini" }
func (a *geminiAdapter) HasTicker() bool { return true }
func (a *geminiAdapter) HasOrderBook() bool { return true }

func (a *geminiAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.40, MakerPercent: 0.20, Defined: true}
}

func (a *geminiAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp geminiTickerResponse
	url := fmt.Sprintf("%s/v1/pubticker/%s", a.baseURL, geminiPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}

	last, err := strconv.ParseFloat(resp.Last, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("invalid last price %q: %w", resp.Last, err)
	}
	return Ticker{Last: last}, nil
}

func (a *geminiAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp geminiBookResponse
	url := fmt.Sprintf("%s/v1/book/%s?limit_bids=%d&limit_asks=%d",
		a.baseURL, geminiPair(pair), depth, depth)
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}

	return OrderBook{
		Bids: geminiLevels(resp.Bids),
		Asks: geminiLevels(resp.Asks),
	}, nil
}

func (a *geminiAdapter) LoadMarkets(ctx context.Context) error {
	var symbols []string
	url := a.baseURL + "/v1/symbols"
	return a.t.getJSON(ctx, url, &symbols)
}

// geminiPair normalizes a canonical pair to Gemini's lowercase compact
// form: "BTC/USD" becomes "btcusd".
func geminiPair(pair string) string {
	return strings.ToLower(compactPair(pair))
}

func geminiLevels(raw []geminiLevel) []models.BookLevel {
	levels := make([]models.BookLevel, 0, len(raw))
	for _, l := range raw {
		price, err1 := strconv.ParseFloat(l.Price, 64)
		qty, err2 := strconv.ParseFloat(l.Amount, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		levels = append(levels, models.BookLevel{Price: price, Quantity: qty})
	}
	return levels
}

type geminiTickerResponse struct {
	Last string `json:"last"`
	Bid  string `json:"bid"`
	Ask  string `json:"ask"`
}

type geminiLevel struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

type geminiBookResponse struct {
	Bids []geminiLevel `json:"bids"`
	Asks []geminiLevel `json:"asks"`
}
