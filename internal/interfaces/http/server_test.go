package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btccompare/venuecost/internal/cache"
	"github.com/btccompare/venuecost/internal/config"
	"github.com/btccompare/venuecost/internal/connector"
	"github.com/btccompare/venuecost/internal/health"
	"github.com/btccompare/venuecost/internal/interfaces/http/handlers"
	"github.com/btccompare/venuecost/internal/orchestrator"
)

func newTestServer() *Server {
	kraken := connector.NewStatic("kraken")
	kraken.SetTicker("BTC/USD", 100_000)
	factories := map[string]connector.Factory{
		"kraken": func(connector.Deps) (connector.Adapter, error) { return kraken, nil },
	}

	store := cache.NewMemoryStore()
	monitor := health.NewMonitor()
	discovery := orchestrator.NewDiscoveryWithFactories(connector.Deps{}, store, factories)
	fetcher := orchestrator.NewFetcher(discovery, store, monitor, orchestrator.Config{})

	return NewServer(config.Default().HTTP, handlers.New(fetcher, monitor, store))
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		method string
		path   string
		status int
	}{
		{method: http.MethodGet, path: "/api/v1/venues", status: http.StatusOK},
		{method: http.MethodGet, path: "/health", status: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", status: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/venues", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/api/v1/compare", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/nope", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestServer_RequestIDMiddleware(t *testing.T) {
	s := newTestServer()

	// Generated when absent.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// Echoed when supplied.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
