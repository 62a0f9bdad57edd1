package breaker

import (
	"sync"
	"time"

	cb "github.com/sony/gobreaker"
)

// Breaker wraps a gobreaker circuit for one upstream venue. A tripped
// circuit fails the venue locally; the fetch orchestrator records that as a
// health failure like any other upstream error.
type Breaker struct {
	cb *cb.CircuitBreaker
}

// New creates a breaker that trips on 3 consecutive failures, or on a >5%
// error rate once 20 requests have been observed.
func New(name string) *Breaker {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		total := counts.Requests
		if total < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(total) > 0.05
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Execute runs fn through the circuit.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

// State returns the circuit state name (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Set hands out one breaker per venue, created on first use.
type Set struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewSet creates an empty breaker set.
func NewSet() *Set {
	return &Set{breakers: make(map[string]*Breaker)}
}

// For returns the breaker for a venue, creating it if needed.
func (s *Set) For(venue string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breakers[venue]
	if !ok {
		b = New(venue)
		s.breakers[venue] = b
	}
	return b
}

// States reports every venue's circuit state, for the /health endpoint.
func (s *Set) States() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.breakers))
	for venue, b := range s.breakers {
		out[venue] = b.State()
	}
	return out
}
