package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T, limit int, window time.Duration) (*RedisFixedWindow, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFixedWindow(client, "test", limit, window), srv
}

func TestRedisFixedWindow_DeniesBeyondLimit(t *testing.T) {
	l, _ := newRedisLimiter(t, 3, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "actor-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, err := l.Allow(ctx, "actor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("4th request within the window should be denied")
	}

	allowed, err = l.Allow(ctx, "actor-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("a different actor should not be affected")
	}
}

func TestRedisFixedWindow_DenialDoesNotMutateCounter(t *testing.T) {
	l, srv := newRedisLimiter(t, 2, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if allowed, _ := l.Allow(ctx, "actor-1"); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	for i := 0; i < 5; i++ {
		if allowed, _ := l.Allow(ctx, "actor-1"); allowed {
			t.Fatal("request beyond the limit should be denied")
		}
	}

	got, err := srv.Get("test:actor-1")
	if err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if got != "2" {
		t.Fatalf("denied requests must not grow the counter: got %s, want 2", got)
	}
}

func TestRedisFixedWindow_ResetsAfterExpiry(t *testing.T) {
	l, srv := newRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if allowed, _ := l.Allow(ctx, "actor-1"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := l.Allow(ctx, "actor-1"); allowed {
		t.Fatal("second request should be denied")
	}

	srv.FastForward(time.Minute)

	if allowed, _ := l.Allow(ctx, "actor-1"); !allowed {
		t.Fatal("request after the window elapsed should start a fresh window")
	}
}
