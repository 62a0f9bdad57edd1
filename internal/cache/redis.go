package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// redisNamespace prefixes every key so the store can share a database with
// other services.
const redisNamespace = "venuecost:"

type redisEnvelope struct {
	Value    json.RawMessage `json:"v"`
	StoredAt time.Time       `json:"at"`
}

// RedisStore is a Store backed by a Redis database. It keeps the same lazy
// TTL semantics as MemoryStore: entries carry their own write timestamp and
// are evicted on read when older than the caller's TTL. Values survive a
// JSON round-trip, so callers reading from a RedisStore should use Decode
// rather than a direct type assertion.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache: value not serializable, dropped")
		return
	}
	env, _ := json.Marshal(redisEnvelope{Value: raw, StoredAt: time.Now()})
	if err := s.client.Set(context.Background(), redisNamespace+key, string(env), 0).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache: set failed")
	}
}

func (s *RedisStore) Get(key string, ttl time.Duration) (interface{}, bool) {
	env, ok := s.load(key)
	if !ok {
		return nil, false
	}
	if time.Since(env.StoredAt) > ttl {
		s.Delete(key)
		return nil, false
	}
	return []byte(env.Value), true
}

func (s *RedisStore) GetTimestamp(key string) (time.Time, bool) {
	env, ok := s.load(key)
	if !ok {
		return time.Time{}, false
	}
	return env.StoredAt, true
}

func (s *RedisStore) Delete(key string) {
	if err := s.client.Del(context.Background(), redisNamespace+key).Err(); err != nil && err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache: delete failed")
	}
}

func (s *RedisStore) Clear() {
	s.ClearPrefix("")
}

func (s *RedisStore) ClearPrefix(prefix string) {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, redisNamespace+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("redis cache: delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("redis cache: scan failed")
	}
}

func (s *RedisStore) Len() int {
	ctx := context.Background()
	n := 0
	iter := s.client.Scan(ctx, 0, redisNamespace+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n
}

func (s *RedisStore) load(key string) (redisEnvelope, bool) {
	raw, err := s.client.Get(context.Background(), redisNamespace+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("redis cache: get failed")
		}
		return redisEnvelope{}, false
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return redisEnvelope{}, false
	}
	return env, true
}

// Decode copies a cached value into dest. MemoryStore hands values back
// as-is while RedisStore hands back raw JSON, so this normalizes both cases
// through a JSON round-trip when needed.
func Decode(value interface{}, dest interface{}) error {
	raw, ok := value.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(value)
		if err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}
