package cache

import (
	"strings"
	"sync"
	"time"
)

// TTLs for the data categories this service caches. Order books go stale
// fastest; discovery results are expensive to rebuild and change rarely.
const (
	PriceTTL     = 30 * time.Second
	OrderBookTTL = 15 * time.Second
	FeesTTL      = time.Hour
	DiscoveryTTL = time.Hour
)

// Store is a key/value cache with per-read TTL checks. Entries are never
// proactively expired; a Get with a TTL smaller than the entry's age deletes
// the entry lazily and reports a miss.
type Store interface {
	Set(key string, value interface{})
	Get(key string, ttl time.Duration) (interface{}, bool)
	GetTimestamp(key string) (time.Time, bool)
	Delete(key string)
	Clear()
	ClearPrefix(prefix string)
	Len() int
}

// Key builds a cache key following the {kind}:{asset}:{venueID} convention,
// e.g. "price:BTC:kraken".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

type entry struct {
	value    interface{}
	storedAt time.Time
}

// MemoryStore is the default in-process Store, a mutex-guarded map.
// Last-writer-wins is the correct policy: entries are independently keyed
// and each fetch cycle produces a full replacement snapshot.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

// Set stores value under key with the current timestamp, overwriting any
// prior entry.
func (s *MemoryStore) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, storedAt: time.Now()}
}

// Get returns the stored value if it is no older than ttl. An expired entry
// is deleted and reported as absent.
func (s *MemoryStore) Get(key string, ttl time.Duration) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > ttl {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// GetTimestamp exposes the write time of an entry for cache-freshness
// reporting. It does not apply any TTL check.
func (s *MemoryStore) GetTimestamp(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return time.Time{}, false
	}
	return e.storedAt, true
}

// Delete removes a single entry.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes all entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// ClearPrefix removes all entries whose key starts with prefix.
func (s *MemoryStore) ClearPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats summarizes store contents for the /health endpoint.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	ByKind       map[string]int `json:"by_kind"`
}

// CollectStats counts entries per key kind (the segment before the first
// colon).
func (s *MemoryStore) CollectStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalEntries: len(s.entries),
		ByKind:       make(map[string]int),
	}
	for k := range s.entries {
		kind := k
		if i := strings.Index(k, ":"); i >= 0 {
			kind = k[:i]
		}
		stats.ByKind[kind]++
	}
	return stats
}
