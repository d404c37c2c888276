package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateLimiter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter shares fixed-window counters across API instances.
// Redis errors fail open.
func NewRedisRateLimiter(ctx context.Context, addr, password string, db int) (RateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisRateLimiter(client), nil
}

func newRedisRateLimiter(client *redis.Client) *redisRateLimiter {
	return &redisRateLimiter{
		client:  client,
		prefix:  "homeorg:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (rl *redisRateLimiter) Allow(key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttlCmd := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("redis rate limiter error", "op", "incr", "error", err)
		return RateDecision{Allowed: true}
	}
	counter := incr.Val()

	// A key without a TTL would never reset, so any hit that finds one
	// (first hit, or an earlier failed EXPIRE) sets the window.
	ttl := ttlCmd.Val()
	if ttl < 0 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			slog.Error("redis rate limiter error", "op", "expire", "error", err)
		}
		ttl = window
	}
	return RateDecision{
		Allowed:   int(counter) <= limit,
		Count:     int(counter),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (rl *redisRateLimiter) Close() {
	if rl.client != nil {
		_ = rl.client.Close()
	}
}
