package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// FixedWindow is an in-memory fixed-window limiter. The check and the
// increment happen under one lock so concurrent requests for the same key
// cannot race past the limit. It does not coordinate across processes.
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewFixedWindow creates an in-memory limiter allowing limit requests per window.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow implements Limiter.
func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return true, nil
	}

	if e.count >= l.limit {
		return false, nil
	}

	e.count++
	return true, nil
}

// Sweep removes entries whose window is long expired. It blocks until ctx is
// cancelled; the caller owns the goroutine. Housekeeping only: correctness
// does not depend on it, just bounded memory.
func (l *FixedWindow) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweepOnce()
		}
	}
}

func (l *FixedWindow) sweepOnce() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
		}
	}
}
