// Package handlers implements the JSON API surface consumed by the
// presentation layer.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/cache"
	"github.com/btccompare/venuecost/internal/comparison"
	"github.com/btccompare/venuecost/internal/health"
	"github.com/btccompare/venuecost/internal/metrics"
	"github.com/btccompare/venuecost/internal/models"
	"github.com/btccompare/venuecost/internal/orchestrator"
	"github.com/btccompare/venuecost/internal/simulation"
)

// Handlers bundles the endpoint implementations and their dependencies.
type Handlers struct {
	fetcher *orchestrator.Fetcher
	monitor *health.Monitor
	store   cache.Store
	started time.Time
}

// New creates the handler set.
func New(fetcher *orchestrator.Fetcher, monitor *health.Monitor, store cache.Store) *Handlers {
	return &Handlers{
		fetcher: fetcher,
		monitor: monitor,
		store:   store,
		started: time.Now(),
	}
}

// Venues serves GET /api/v1/venues?asset=BTC: the full per-venue snapshot
// list for one asset. Partial results are normal; only a completely failed
// cycle is an error.
func (h *Handlers) Venues(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(r.URL.Query().Get("asset"))
	if asset == "" {
		asset = "BTC"
	}

	result, err := h.fetcher.FetchAll(r.Context(), asset)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	Asset         string  `json:"asset"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	DepositMethod string  `json:"deposit_method"`
	Mode          string  `json:"mode"`
}

// Compare serves POST /api/v1/compare: a ranked total-cost comparison for
// the request's notional, built from live featured-venue prices.
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Asset == "" {
		req.Asset = "BTC"
	}

	fetched, err := h.fetcher.FetchAll(r.Context(), strings.ToUpper(req.Asset))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	prices := make(map[string]float64)
	for _, v := range fetched.Venues {
		if v.Status == models.VenueStatusOK && v.Price != nil {
			prices[v.ID] = *v.Price
		}
	}
	if len(prices) == 0 {
		writeError(w, http.StatusServiceUnavailable, "no venue returned a usable price")
		return
	}

	outcome := comparison.Calculate(prices, models.ComparisonRequest{
		Amount:        req.Amount,
		Currency:      req.Currency,
		DepositMethod: req.DepositMethod,
		Mode:          models.TradeMode(req.Mode),
	})
	metrics.RecordComparison()

	writeJSON(w, http.StatusOK, outcome)
}

type simulateRequest struct {
	Side     string             `json:"side"` // "buy" or "sell"
	Levels   []models.BookLevel `json:"levels"`
	Notional float64            `json:"notional"` // quote units for buys
	Quantity float64            `json:"quantity"` // asset units for sells
}

// Simulate serves POST /api/v1/simulate: a market-order walk over the
// provided book side.
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var result models.MarketSimulationResult
	switch strings.ToLower(req.Side) {
	case "sell":
		result = simulation.SimulateMarketSell(req.Levels, req.Quantity)
	default:
		result = simulation.SimulateMarketBuy(req.Levels, req.Notional)
	}
	metrics.RecordSimulation()

	writeJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status    string                   `json:"status"`
	UptimeSec int64                    `json:"uptime_seconds"`
	Venues    map[string]health.Record `json:"venues"`
	Cache     interface{}              `json:"cache,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// Health serves GET /health: venue health records plus cache stats.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		UptimeSec: int64(time.Since(h.started).Seconds()),
		Venues:    h.monitor.Snapshot(),
		Timestamp: time.Now(),
	}
	if ms, ok := h.store.(*cache.MemoryStore); ok {
		resp.Cache = ms.CollectStats()
	}

	down := 0
	for _, rec := range resp.Venues {
		if rec.ConsecutiveFailures >= 3 {
			down++
		}
	}
	if down > 0 && down >= len(resp.Venues)/2 {
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
