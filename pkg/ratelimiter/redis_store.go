package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const consumeScript = `
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = capacity
  ts = now
else
  local intervals = math.floor((now - ts) / interval)
  if intervals > 0 then
    tokens = math.min(capacity, tokens + intervals * rate)
    ts = now
  end
end

local remaining = tokens - cost
if remaining >= 0 then
  tokens = remaining
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {remaining, ts + interval}
`

// RedisStore keeps buckets in Redis under prefix+key.
type RedisStore struct {
	client redis.UniversalClient
	script *redis.Script
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		script: redis.NewScript(consumeScript),
		prefix: prefix + "ratelimit:",
	}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	intervalMS := cfg.RefillInterval.Milliseconds()
	if intervalMS <= 0 {
		intervalMS = 1
	}
	// Keep an idle bucket long enough to refill completely, twice over.
	ttlMS := int64(cfg.Capacity/cfg.RefillRate+1) * intervalMS * 2

	res, err := s.script.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity, cfg.RefillRate, intervalMS, tokens, ttlMS,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply", ErrStoreUnavailable)
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
