package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
tokens = math.min(burst, tokens + (delta * rate) / 1000.0)

local allowed = tokens >= 1
local wait_ms = 0
if allowed then
  tokens = tokens - 1
else
  wait_ms = math.ceil((1 - tokens) * 1000.0 / rate)
end

redis.call("HMSET", key, "tokens", tokens, "ts", now)
redis.call("PEXPIRE", key, math.ceil((burst / rate) * 1000.0 * 2))

return {allowed and 1 or 0, wait_ms}
`

// RateLimiter is a token bucket per subject (for example a client IP) shared
// by every API instance through Redis.
type RateLimiter struct {
	client *redis.Client
	prefix string
	rate   float64 // tokens per second
	burst  float64
	script *redis.Script
}

func NewRateLimiter(client *redis.Client, prefix string, rate, burst float64) *RateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RateLimiter{
		client: client,
		prefix: prefix,
		rate:   rate,
		burst:  burst,
		script: redis.NewScript(tokenBucketLua),
	}
}

// Allow takes one token for subject. When the bucket is empty it returns
// false and how long until the next token.
func (r *RateLimiter) Allow(ctx context.Context, subject string) (bool, time.Duration, error) {
	if r == nil || r.rate <= 0 || r.burst <= 0 {
		return true, 0, nil
	}

	now := time.Now().UnixMilli()
	res, err := r.script.Run(ctx, r.client, []string{r.prefix + ":" + subject}, r.rate, r.burst, now).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit eval: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) < 2 {
		return false, 0, fmt.Errorf("ratelimit invalid result")
	}

	allowed := toInt64(values[0]) == 1
	wait := time.Duration(toInt64(values[1])) * time.Millisecond
	return allowed, wait, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
