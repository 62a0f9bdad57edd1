package cache

import (
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()

	s.Set("price:BTC:kraken", 100000.0)

	v, ok := s.Get("price:BTC:kraken", PriceTTL)
	if !ok {
		t.Fatal("expected to find cached price")
	}
	if v != 100000.0 {
		t.Errorf("expected 100000, got %v", v)
	}

	if _, ok := s.Get("price:BTC:missing", PriceTTL); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryStore_TTLExpiration(t *testing.T) {
	s := NewMemoryStore()
	s.Set("book:BTC:kraken", "depth")

	// Fresh entry is served.
	if _, ok := s.Get("book:BTC:kraken", 100*time.Millisecond); !ok {
		t.Error("expected fresh entry to be found")
	}

	time.Sleep(150 * time.Millisecond)

	// Expired on read, and the read deletes the entry.
	if _, ok := s.Get("book:BTC:kraken", 100*time.Millisecond); ok {
		t.Error("expected entry to be expired")
	}
	if s.Len() != 0 {
		t.Errorf("expected expired entry to be deleted, store holds %d", s.Len())
	}
}

func TestMemoryStore_TTLIsPerRead(t *testing.T) {
	s := NewMemoryStore()
	s.Set("fees:kraken", "schedule")

	time.Sleep(20 * time.Millisecond)

	// The same entry can be stale for one caller and fresh for another.
	if _, ok := s.Get("fees:kraken", time.Millisecond); ok {
		t.Error("expected miss with a 1ms TTL")
	}

	s.Set("fees:kraken", "schedule")
	if _, ok := s.Get("fees:kraken", FeesTTL); !ok {
		t.Error("expected hit with the fees TTL")
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	s.Set("price:BTC:kraken", 1.0)
	s.Set("price:BTC:kraken", 2.0)

	v, ok := s.Get("price:BTC:kraken", PriceTTL)
	if !ok || v != 2.0 {
		t.Errorf("expected last write to win, got %v (found=%v)", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("expected a single entry, got %d", s.Len())
	}
}

func TestMemoryStore_GetTimestamp(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.GetTimestamp("price:BTC:kraken"); ok {
		t.Error("expected no timestamp for absent key")
	}

	before := time.Now()
	s.Set("price:BTC:kraken", 1.0)

	ts, ok := s.GetTimestamp("price:BTC:kraken")
	if !ok {
		t.Fatal("expected timestamp for stored key")
	}
	if ts.Before(before) || ts.After(time.Now()) {
		t.Errorf("timestamp %v outside write window", ts)
	}
}

func TestMemoryStore_ClearPrefix(t *testing.T) {
	s := NewMemoryStore()
	s.Set("price:BTC:kraken", 1.0)
	s.Set("price:ETH:kraken", 2.0)
	s.Set("fees:kraken", 3.0)

	s.ClearPrefix("price:")

	if s.Len() != 1 {
		t.Errorf("expected only fees entry to remain, got %d entries", s.Len())
	}
	if _, ok := s.Get("fees:kraken", FeesTTL); !ok {
		t.Error("expected fees entry to survive")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty store after Clear, got %d", s.Len())
	}
}

func TestKey(t *testing.T) {
	if got := Key("price", "BTC", "kraken"); got != "price:BTC:kraken" {
		t.Errorf("unexpected key %q", got)
	}
	if got := Key("discovery", "all"); got != "discovery:all" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestCollectStats(t *testing.T) {
	s := NewMemoryStore()
	s.Set("price:BTC:kraken", 1.0)
	s.Set("price:BTC:binance", 2.0)
	s.Set("book:BTC:kraken", 3.0)

	stats := s.CollectStats()
	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	if stats.ByKind["price"] != 2 {
		t.Errorf("expected 2 price entries, got %d", stats.ByKind["price"])
	}
	if stats.ByKind["book"] != 1 {
		t.Errorf("expected 1 book entry, got %d", stats.ByKind["book"])
	}
}
