package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter provides per-venue rate limiting using token buckets. One bucket
// is lazily created per venue ID so a slow venue never starves the others.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewLimiter creates a limiter handing each venue rps requests per second
// with the given burst capacity.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (l *Limiter) limiter(venue string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[venue]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Re-check after acquiring the write lock.
	if lim, ok := l.limiters[venue]; ok {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[venue] = lim
	return lim
}

// Allow reports whether a request for the venue may proceed immediately.
func (l *Limiter) Allow(venue string) bool {
	return l.limiter(venue).Allow()
}

// Wait blocks until a request for the venue is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, venue string) error {
	return l.limiter(venue).Wait(ctx)
}

// Tokens returns the tokens currently available for the venue.
func (l *Limiter) Tokens(venue string) float64 {
	return l.limiter(venue).Tokens()
}

// Reset drops all venue buckets.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters = make(map[string]*rate.Limiter)
}
