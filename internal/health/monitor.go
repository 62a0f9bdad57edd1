package health

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btccompare/venuecost/internal/models"
)

// downThreshold is the consecutive-failure count at which a venue is
// classified down and hidden from discovery.
const downThreshold = 3

// Record tracks one venue's failure streak. Transitions happen only on
// explicit success/failure events; there is no time-based recovery.
type Record struct {
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastSuccess         time.Time `json:"last_success,omitempty"`
	LastFailure         time.Time `json:"last_failure,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
}

// Monitor keeps per-venue health records. Safe for concurrent use by the
// fetch workers.
type Monitor struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMonitor creates an empty health monitor.
func NewMonitor() *Monitor {
	return &Monitor{records: make(map[string]*Record)}
}

// RecordSuccess resets the venue's failure streak and clears its last error.
func (m *Monitor) RecordSuccess(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.record(id)
	if rec.ConsecutiveFailures >= downThreshold {
		log.Info().Str("venue", id).Msg("venue recovered")
	}
	rec.ConsecutiveFailures = 0
	rec.LastSuccess = time.Now()
	rec.LastError = ""
}

// RecordFailure increments the venue's failure streak and stores the reason.
func (m *Monitor) RecordFailure(id, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.record(id)
	rec.ConsecutiveFailures++
	rec.LastFailure = time.Now()
	rec.LastError = reason

	if rec.ConsecutiveFailures == downThreshold {
		log.Warn().Str("venue", id).Str("reason", reason).Msg("venue marked down")
	}
}

// Status derives the venue's health classification from its failure streak.
func (m *Monitor) Status(id string) models.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return models.HealthUnknown
	}
	switch {
	case rec.ConsecutiveFailures >= downThreshold:
		return models.HealthDown
	case rec.ConsecutiveFailures >= 1:
		return models.HealthDegraded
	case rec.LastSuccess.IsZero():
		return models.HealthUnknown
	default:
		return models.HealthHealthy
	}
}

// ShouldHide reports whether the venue should be dropped from discovery.
// Featured venues are always retried regardless; that exemption lives with
// the caller.
func (m *Monitor) ShouldHide(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	return ok && rec.ConsecutiveFailures >= downThreshold
}

// ConsecutiveFailures returns the venue's current failure streak.
func (m *Monitor) ConsecutiveFailures(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return 0
	}
	return rec.ConsecutiveFailures
}

// LastError returns the most recent failure reason, empty after a success.
func (m *Monitor) LastError(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return ""
	}
	return rec.LastError
}

// Clear drops all records.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*Record)
}

// Snapshot returns a copy of every record keyed by venue ID, for the
// /health endpoint.
func (m *Monitor) Snapshot() map[string]Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Record, len(m.records))
	for id, rec := range m.records {
		out[id] = *rec
	}
	return out
}

func (m *Monitor) record(id string) *Record {
	rec, ok := m.records[id]
	if !ok {
		rec = &Record{}
		m.records[id] = rec
	}
	return rec
}
