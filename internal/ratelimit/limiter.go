package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ratelimit:login:"

// Limiter is a fixed-window counter over Redis, keyed by client address.
// The login endpoint uses it to cap credential-guessing before the store is
// ever queried. A nil Redis client disables limiting.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

// NewLimiter creates a limiter allowing max hits per window
func NewLimiter(rdb *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, max: max, window: window}
}

// Allow consumes one attempt for addr and reports whether it is within the
// limit. Redis errors fail open so a cache outage cannot block all logins.
func (l *Limiter) Allow(ctx context.Context, addr string) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	key := keyPrefix + addr
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		// First hit opens the window
		l.rdb.Expire(ctx, key, l.window)
	}
	return count <= int64(l.max)
}
