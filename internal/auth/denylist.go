package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "auth:denylist:"

// Denylist records logged-out token ids until their natural expiry. With a
// nil Redis client (no Redis configured) every Revoke is a no-op and no token
// is ever reported revoked.
type Denylist struct {
	rdb *redis.Client
}

// NewDenylist creates a token denylist backed by Redis
func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

// Revoke marks the token id as revoked until expireAt
func (d *Denylist) Revoke(ctx context.Context, jti string, expireAt time.Time) error {
	if d == nil || d.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether the token id has been revoked. Redis errors fail
// open: a broken cache must not lock every user out.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) bool {
	if d == nil || d.rdb == nil || jti == "" {
		return false
	}
	n, err := d.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
