package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/models"
)

// transport is the shared request path for all REST adapters: wait on the
// venue's rate-limit bucket, run the request through the venue's circuit
// breaker, decode JSON. HTTP 404s and 400s are mapped to
// ErrPairNotSupported so callers can tell "asset not listed" apart from an
// outage.
type transport struct {
	venue string
	deps  Deps
}

func newTransport(venue string, deps Deps) transport {
	if deps.HTTPClient == nil {
		deps = DefaultDeps()
	}
	return transport{venue: venue, deps: deps}
}

func (t transport) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := t.deps.Limiter.Wait(ctx, t.venue); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := t.deps.Breakers.For(t.venue).Execute(func() (any, error) {
		return nil, t.doRequest(ctx, url, dest)
	})
	return err
}

func (t transport) doRequest(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.deps.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return ErrPairNotSupported
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s API error: %d %s", t.venue, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	log.Debug().Str("venue", t.venue).Str("url", url).Msg("upstream fetch ok")
	return nil
}

// levelsFromStrings converts [price, quantity, ...] string rows into book
// levels, dropping rows that fail to parse. Validity filtering (price or
// quantity <= 0) belongs to the simulation engine, not here.
func levelsFromStrings(raw [][]string) []models.BookLevel {
	levels := make([]models.BookLevel, 0, len(raw))
	for _, row := range raw {
		if len(row) < 2 {
			continue
		}
		price, err1 := strconv.ParseFloat(row[0], 64)
		qty, err2 := strconv.ParseFloat(row[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		levels = append(levels, models.BookLevel{Price: price, Quantity: qty})
	}
	return levels
}

// levelsFromAny handles venues that mix strings and numbers within one
// level row (Kraken appends a numeric timestamp, Coinbase an order count).
func levelsFromAny(raw [][]interface{}) []models.BookLevel {
	levels := make([]models.BookLevel, 0, len(raw))
	for _, row := range raw {
		if len(row) < 2 {
			continue
		}
		price, ok1 := asFloat(row[0])
		qty, ok2 := asFloat(row[1])
		if !ok1 || !ok2 {
			continue
		}
		levels = append(levels, models.BookLevel{Price: price, Quantity: qty})
	}
	return levels
}

func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
