package connector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btccompare/venuecost/internal/models"
)

func fakeVenue(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRegistry(t *testing.T) {
	ids := IDs()
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i], "IDs must be sorted")
	}

	adapter, err := New("kraken", DefaultDeps())
	require.NoError(t, err)
	assert.Equal(t, "kraken", adapter.ID())

	_, err = New("mtgox", DefaultDeps())
	assert.ErrorIs(t, err, ErrUnknownVenue)
}

func TestBinance_FetchTicker(t *testing.T) {
	server := fakeVenue(t, map[string]string{
		"/api/v3/ticker/price": `{"symbol":"BTCUSDT","price":"100123.45"}`,
	})

	adapter, err := NewBinance(DefaultDeps())
	require.NoError(t, err)
	adapter.(*binanceAdapter).baseURL = server.URL

	ticker, err := adapter.FetchTicker(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.Equal(t, 100123.45, ticker.Last)
}

func TestBinance_UnknownSymbolIs404(t *testing.T) {
	server := fakeVenue(t, nil)

	adapter, err := NewBinance(DefaultDeps())
	require.NoError(t, err)
	adapter.(*binanceAdapter).baseURL = server.URL

	_, err = adapter.FetchTicker(context.Background(), "DOGE/USDT")
	assert.ErrorIs(t, err, ErrPairNotSupported)
}

func TestBinance_FetchOrderBook(t *testing.T) {
	server := fakeVenue(t, map[string]string{
		"/api/v3/depth": `{
			"lastUpdateId": 1,
			"bids": [["99990.00","1.5"],["99980.00","2.0"]],
			"asks": [["100010.00","0.5"],["bad","row"],["100020.00","1.0"]]
		}`,
	})

	adapter, err := NewBinance(DefaultDeps())
	require.NoError(t, err)
	adapter.(*binanceAdapter).baseURL = server.URL

	book, err := adapter.FetchOrderBook(context.Background(), "BTC/USDT", 20)
	require.NoError(t, err)

	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, models.BookLevel{Price: 99990, Quantity: 1.5}, book.Bids[0])
	assert.Equal(t, models.BookLevel{Price: 100010, Quantity: 0.5}, book.Asks[0])
}

func TestBinance_LoadMarketsFiltersSymbols(t *testing.T) {
	server := fakeVenue(t, map[string]string{
		"/api/v3/exchangeInfo": `{"symbols":[
			{"symbol":"BTCUSDT","status":"TRADING"},
			{"symbol":"LUNAUSDT","status":"BREAK"}
		]}`,
		"/api/v3/ticker/price": `{"symbol":"BTCUSDT","price":"100000"}`,
	})

	adapter, err := NewBinance(DefaultDeps())
	require.NoError(t, err)
	adapter.(*binanceAdapter).baseURL = server.URL

	require.NoError(t, adapter.LoadMarkets(context.Background()))

	// A delisted symbol short-circuits without an upstream call.
	_, err = adapter.FetchTicker(context.Background(), "LUNA/USDT")
	assert.ErrorIs(t, err, ErrPairNotSupported)

	ticker, err := adapter.FetchTicker(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, ticker.Last)
}

func TestKraken_FetchTicker(t *testing.T) {
	server := fakeVenue(t, map[string]string{
		"/0/public/Ticker": `{"error":[],"result":{"XXBTZUSD":{"c":["100250.10","0.01"]}}}`,
	})

	adapter, err := NewKraken(DefaultDeps())
	require.NoError(t, err)
	adapter.(*krakenAdapter).baseURL = server.URL

	ticker, err := adapter.FetchTicker(context.Background(), "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, 100250.10, ticker.Last)
}

func TestKraken_ErrorEnvelope(t *testing.T) {
	server := fakeVenue(t, map[string]string{
		"/0/public/Ticker": `{"error":["EQuery:Unknown asset pair"],"result":{}}`,
	})

	adapter, err := NewKraken(DefaultDeps())
	require.NoError(t, err)
	adapter.(*krakenAdapter).baseURL = server.URL

	_, err = adapter.FetchTicker(context.Background(), "FOO/USD")
	assert.ErrorIs(t, err, ErrPairNotSupported)
}

func TestKraken_FetchOrderBookMixedRowTypes(t *testing.T) {
	// Kraken rows append a numeric timestamp after the string price and
	// volume.
	server := fakeVenue(t, map[string]string{
		"/0/public/Depth": `{"error":[],"result":{"XXBTZUSD":{
			"asks": [["100010.0","0.5",1693300000],["100020.0","1.0",1693300001]],
			"bids": [["99990.0","1.5",1693300000]]
		}}}`,
	})

	adapter, err := NewKraken(DefaultDeps())
	require.NoError(t, err)
	adapter.(*krakenAdapter).baseURL = server.URL

	book, err := adapter.FetchOrderBook(context.Background(), "BTC/USD", 10)
	require.NoError(t, err)

	require.Len(t, book.Asks, 2)
	require.Len(t, book.Bids, 1)
	assert.Equal(t, models.BookLevel{Price: 100010, Quantity: 0.5}, book.Asks[0])
	assert.Equal(t, models.BookLevel{Price: 99990, Quantity: 1.5}, book.Bids[0])
}

func TestBitfinex_FetchOrderBookSplitsSides(t *testing.T) {
	// One flat array for both sides; negative amounts are asks.
	server := fakeVenue(t, map[string]string{
		"/v2/book/tBTCUSD/P0": `[
			[99990, 2, 1.5],
			[100020, 1, -1.0],
			[99980, 1, 0.5],
			[100010, 3, -0.25]
		]`,
	})

	adapter, err := NewBitfinex(DefaultDeps())
	require.NoError(t, err)
	adapter.(*bitfinexAdapter).baseURL = server.URL

	book, err := adapter.FetchOrderBook(context.Background(), "BTC/USD", 20)
	require.NoError(t, err)

	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 2)
	// Asks ascending, bids descending, quantities made positive.
	assert.Equal(t, models.BookLevel{Price: 100010, Quantity: 0.25}, book.Asks[0])
	assert.Equal(t, models.BookLevel{Price: 100020, Quantity: 1.0}, book.Asks[1])
	assert.Equal(t, models.BookLevel{Price: 99990, Quantity: 1.5}, book.Bids[0])
	assert.Equal(t, models.BookLevel{Price: 99980, Quantity: 0.5}, book.Bids[1])
}

func TestTransport_ServerErrorIsNotPairNotSupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	adapter, err := NewBinance(DefaultDeps())
	require.NoError(t, err)
	adapter.(*binanceAdapter).baseURL = server.URL

	_, err = adapter.FetchTicker(context.Background(), "BTC/USDT")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPairNotSupported))
	assert.Contains(t, err.Error(), "503")
}

func TestPairNormalizers(t *testing.T) {
	assert.Equal(t, "BTCUSDT", compactPair("BTC/USDT"))
	assert.Equal(t, "BTCUSD", compactPair("btc-usd"))
	assert.Equal(t, "XBTUSD", krakenPair("BTC/USD"))
	assert.Equal(t, "ETHUSD", krakenPair("ETH/USD"))
	assert.Equal(t, "tBTCUSD", bitfinexPair("BTC/USD"))
	assert.Equal(t, "tBTCUST", bitfinexPair("tBTCUST"))
}

func TestBitfinexBookLen(t *testing.T) {
	assert.Equal(t, 1, bitfinexBookLen(1))
	assert.Equal(t, 25, bitfinexBookLen(20))
	assert.Equal(t, 100, bitfinexBookLen(100))
	assert.Equal(t, 250, bitfinexBookLen(1000))
}
