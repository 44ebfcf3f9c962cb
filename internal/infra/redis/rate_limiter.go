package redis

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter limiter. It satisfies
// usecase.RateLimiter through the Allow method when bound to a limit/window.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Incr(ctx, "rate_limit:"+key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, "rate_limit:"+key, r.window); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}
