package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
)

func envelopeJSON(t *testing.T, value interface{}, storedAt time.Time) string {
	t.Helper()
	raw, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	env, err := json.Marshal(redisEnvelope{Value: raw, StoredAt: storedAt})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return string(env)
}

func TestRedisStore_SetWritesNamespacedEnvelope(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)

	mock.Regexp().ExpectSet("venuecost:price:BTC:kraken", `\{"v":100000,"at":".*"\}`, 0).SetVal("OK")

	s.Set("price:BTC:kraken", 100000)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStore_GetFreshEntry(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)

	mock.ExpectGet("venuecost:price:BTC:kraken").SetVal(envelopeJSON(t, 100000.0, time.Now()))

	v, ok := s.Get("price:BTC:kraken", PriceTTL)
	if !ok {
		t.Fatal("expected fresh entry to be found")
	}

	var price float64
	if err := Decode(v, &price); err != nil {
		t.Fatalf("decode cached price: %v", err)
	}
	if price != 100000 {
		t.Errorf("expected 100000, got %v", price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStore_GetExpiredEntryDeletes(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)

	stale := time.Now().Add(-2 * PriceTTL)
	mock.ExpectGet("venuecost:price:BTC:kraken").SetVal(envelopeJSON(t, 100000.0, stale))
	mock.ExpectDel("venuecost:price:BTC:kraken").SetVal(1)

	if _, ok := s.Get("price:BTC:kraken", PriceTTL); ok {
		t.Error("expected stale entry to be reported absent")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStore_GetMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)

	mock.ExpectGet("venuecost:price:BTC:missing").RedisNil()

	if _, ok := s.Get("price:BTC:missing", PriceTTL); ok {
		t.Error("expected miss for absent key")
	}
}

func TestRedisStore_GetTimestamp(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)

	storedAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	mock.ExpectGet("venuecost:fees:kraken").SetVal(envelopeJSON(t, "schedule", storedAt))

	ts, ok := s.GetTimestamp("fees:kraken")
	if !ok {
		t.Fatal("expected timestamp")
	}
	if !ts.Equal(storedAt) {
		t.Errorf("expected %v, got %v", storedAt, ts)
	}
}

func TestDecode(t *testing.T) {
	// RedisStore hands back raw JSON bytes.
	var fromRedis float64
	if err := Decode([]byte("42.5"), &fromRedis); err != nil {
		t.Fatalf("decode raw bytes: %v", err)
	}
	if fromRedis != 42.5 {
		t.Errorf("expected 42.5, got %v", fromRedis)
	}

	// MemoryStore hands back the value as stored; Decode round-trips it.
	type snapshot struct {
		Asset string `json:"asset"`
	}
	var fromMemory snapshot
	if err := Decode(snapshot{Asset: "BTC"}, &fromMemory); err != nil {
		t.Fatalf("decode in-memory value: %v", err)
	}
	if fromMemory.Asset != "BTC" {
		t.Errorf("expected BTC, got %q", fromMemory.Asset)
	}
}
