package connector

import (
	"context"
	"fmt"
	"strconv"
)

// okxAdapter fetches market data from the OKX public API. OKX wraps
// payloads in a {code, msg, data} envelope; code "0" means success.
type okxAdapter struct {
	t       transport
	baseURL string
}

// NewOKX creates the OKX adapter.
func NewOKX(deps Deps) (Adapter, error) {
	return &okxAdapter{
		t:       newTransport("okx", deps),
		baseURL: "https://www.okx.com",
	}, nil
}

func (a *okxAdapter) ID() string { return "okx" }
func (a *okxAdapter) HasTicker() bool { return true }
func (a *okxAdapter) HasOrderBook() bool { return true }

func (a *okxAdapter) Fees() FeeDescriptor {
	return FeeDescriptor{TakerPercent: 0.10, MakerPercent: 0.08, Defined: true}
}

func (a *okxAdapter) FetchTicker(ctx context.Context, pair string) (Ticker, error) {
	var resp okxTickerResponse
	url := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", a.baseURL, dashPair(pair))
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return Ticker{}, err
	}
	if err := okxError(resp.Code, resp.Msg); err != nil {
		return Ticker{}, err
	}
	if len(resp.Data) == 0 {
		return Ticker{}, ErrPairNotSupported
	}

	last, err := strconv.ParseFloat(resp.Data[0].Last, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("invalid last price %q: %w", resp.Data[0].Last, err)
	}
	return Ticker{Last: last}, nil
}

func (a *okxAdapter) FetchOrderBook(ctx context.Context, pair string, depth int) (OrderBook, error) {
	var resp okxBookResponse
	url := fmt.Sprintf("%s/api/v5/market/books?instId=%s&sz=%d", a.baseURL, dashPair(pair), depth)
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return OrderBook{}, err
	}
	if err := okxError(resp.Code, resp.Msg); err != nil {
		return OrderBook{}, err
	}
	if len(resp.Data) == 0 {
		return OrderBook{}, ErrNoOrderBook
	}

	return OrderBook{
		Bids: levelsFromStrings(resp.Data[0].Bids),
		Asks: levelsFromStrings(resp.Data[0].Asks),
	}, nil
}

func (a *okxAdapter) LoadMarkets(ctx context.Context) error {
	var resp okxInstrumentsResponse
	url := a.baseURL + "/api/v5/public/instruments?instType=SPOT"
	if err := a.t.getJSON(ctx, url, &resp); err != nil {
		return err
	}
	return okxError(resp.Code, resp.Msg)
}

func okxError(code, msg string) error {
	switch code {
	case "0", "":
		return nil
	case "51001": // instrument does not exist
		return ErrPairNotSupported
	default:
		return fmt.Errorf("okx API error %s: %s", code, msg)
	}
}

type okxTickerResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID string `json:"instId"`
		Last   string `json:"last"`
	} `json:"data"`
}

type okxBookResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		Asks [][]string `json:"asks"` // [price, size, liquidated, orders]
		Bids [][]string `json:"bids"`
	} `json:"data"`
}

type okxInstrumentsResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		InstID string `json:"instId"`
		State  string `json:"state"`
	} `json:"data"`
}
