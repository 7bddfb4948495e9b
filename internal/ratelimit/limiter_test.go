package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func testLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLimiter(rdb, max, window), mr
}

func TestAllow_FixedWindow(t *testing.T) {
	l, _ := testLimiter(t, 5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if !l.Allow(ctx, "192.0.2.1") {
			t.Fatalf("attempt %d denied, want allowed", i)
		}
	}
	if l.Allow(ctx, "192.0.2.1") {
		t.Fatal("6th attempt within the window allowed, want denied")
	}

	// Each address has its own window
	if !l.Allow(ctx, "192.0.2.2") {
		t.Fatal("first attempt from another address denied")
	}
}

func TestAllow_WindowExpiry(t *testing.T) {
	l, mr := testLimiter(t, 2, 15*time.Minute)
	ctx := context.Background()

	l.Allow(ctx, "192.0.2.1")
	l.Allow(ctx, "192.0.2.1")
	if l.Allow(ctx, "192.0.2.1") {
		t.Fatal("3rd attempt allowed, want denied")
	}

	mr.FastForward(15 * time.Minute)

	if !l.Allow(ctx, "192.0.2.1") {
		t.Fatal("attempt after window expiry denied, want allowed")
	}
}

func TestAllow_DisabledWithoutRedis(t *testing.T) {
	l := NewLimiter(nil, 5, 15*time.Minute)

	for i := 0; i < 20; i++ {
		if !l.Allow(context.Background(), "192.0.2.1") {
			t.Fatal("limiter without redis must always allow")
		}
	}
}

func TestAllow_NilLimiter(t *testing.T) {
	var l *Limiter
	if !l.Allow(context.Background(), "192.0.2.1") {
		t.Fatal("nil limiter must allow")
	}
}
