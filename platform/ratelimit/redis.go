package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFixedWindow is a fixed-window limiter backed by a shared Redis counter,
// for deployments running more than one server instance. The counter key
// expires with the window, so a request after the window has elapsed starts a
// fresh count of 1.
type RedisFixedWindow struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisFixedWindow creates a Redis-backed limiter allowing limit requests
// per window. The prefix namespaces counter keys per policy.
func NewRedisFixedWindow(client *redis.Client, prefix string, limit int, window time.Duration) *RedisFixedWindow {
	return &RedisFixedWindow{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// NewRedisClient builds a Redis client from a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// allowScript checks and increments atomically. A request at the limit is
// denied without touching the counter, and the first hit in a window owns the
// expiry; later hits inherit it, which is what makes the window fixed rather
// than sliding.
var allowScript = redis.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count >= tonumber(ARGV[1]) then
	return 0
end
count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

// Allow implements Limiter.
func (l *RedisFixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := l.prefix + ":" + key

	res, err := allowScript.Run(ctx, l.client, []string{counterKey}, l.limit, l.window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}
