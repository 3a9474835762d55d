package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript mirrors MemoryStore.Take atomically on the Redis side.
// KEYS[1] bucket hash; ARGV capacity, refill rate, interval ms, now ms, n.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

local intervals = math.floor((now - ts) / interval)
if intervals > 0 then
  intervals = math.min(intervals, math.floor(capacity / rate) + 1)
  tokens = math.min(tokens + intervals * rate, capacity)
  ts = now
end

local allowed = 0
if tokens >= n then
  tokens = tokens - n
  allowed = 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], interval * (math.floor(capacity / rate) + 2))
return {tokens, allowed, ts + interval}
`)

// RedisClient is the part of go-redis the store needs.
type RedisClient interface {
	redis.Scripter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore shares buckets between service replicas.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisStore prefixes every key with prefix, "ratelimit:" when empty.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Take runs the refill and take atomically in a Lua script.
func (s *RedisStore) Take(ctx context.Context, key string, n int, cfg Config) (int, bool, time.Time, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity, cfg.RefillRate, cfg.RefillInterval.Milliseconds(), time.Now().UnixMilli(), n,
	).Int64Slice()
	if err != nil {
		return 0, false, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 3 {
		return 0, false, time.Time{}, ErrStoreUnavailable
	}
	return int(res[0]), res[1] == 1, time.UnixMilli(res[2]), nil
}

// Reset deletes the bucket of key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
