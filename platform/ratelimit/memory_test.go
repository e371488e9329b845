package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newTestLimiter(limit int, window time.Duration) (*FixedWindow, *time.Time) {
	l := NewFixedWindow(limit, window)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func mustAllow(t *testing.T, l *FixedWindow, key string, want bool) {
	t.Helper()
	got, err := l.Allow(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("Allow(%q) = %v, want %v", key, got, want)
	}
}

func TestFixedWindow_DeniesBeyondLimit(t *testing.T) {
	l, _ := newTestLimiter(3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		mustAllow(t, l, "actor-1", true)
	}
	mustAllow(t, l, "actor-1", false)

	// A different key is unaffected by actor-1's exhausted window.
	mustAllow(t, l, "actor-2", true)
}

func TestFixedWindow_ResetsAfterWindowElapsed(t *testing.T) {
	l, now := newTestLimiter(3, 10*time.Minute)

	for i := 0; i < 4; i++ {
		_, _ = l.Allow(context.Background(), "actor-1")
	}
	mustAllow(t, l, "actor-1", false)

	*now = now.Add(10 * time.Minute)

	// First request of the new window is allowed and starts a fresh count.
	mustAllow(t, l, "actor-1", true)
	mustAllow(t, l, "actor-1", true)
	mustAllow(t, l, "actor-1", true)
	mustAllow(t, l, "actor-1", false)
}

func TestFixedWindow_DenialDoesNotExtendWindow(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)

	mustAllow(t, l, "actor-1", true)
	*now = now.Add(59 * time.Second)
	mustAllow(t, l, "actor-1", false)

	// The window is anchored at the first request, not the last denial.
	*now = now.Add(time.Second)
	mustAllow(t, l, "actor-1", true)
}

func TestFixedWindow_SweepRemovesExpiredEntries(t *testing.T) {
	l, now := newTestLimiter(3, time.Minute)

	_, _ = l.Allow(context.Background(), "actor-1")
	_, _ = l.Allow(context.Background(), "actor-2")

	*now = now.Add(2 * time.Minute)
	_, _ = l.Allow(context.Background(), "actor-2")

	l.sweepOnce()

	l.mu.Lock()
	_, gone := l.entries["actor-1"]
	_, kept := l.entries["actor-2"]
	l.mu.Unlock()

	if gone {
		t.Fatal("expected expired entry actor-1 to be swept")
	}
	if !kept {
		t.Fatal("expected live entry actor-2 to survive the sweep")
	}
}
