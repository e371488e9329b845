// Package ratelimit provides fixed-window request-rate limiting.
// This is part of the platform layer and contains no business logic.
//
// The limiter is an injected abstraction: single-process deployments use the
// in-memory FixedWindow, horizontally scaled deployments use RedisFixedWindow
// backed by a shared counter store.
package ratelimit

import "context"

// Limiter bounds how many requests a given key may issue per time window.
type Limiter interface {
	// Allow reports whether the request identified by key is within the
	// window's limit. A denied request must not mutate limiter state.
	Allow(ctx context.Context, key string) (bool, error)
}
