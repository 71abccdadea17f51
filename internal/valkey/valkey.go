// Package valkey provides Valkey (Redis-compatible) client initialization and
// the shared fixed-window rate limiter that runs on top of it.
package valkey

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a Valkey client and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// Limiter allows at most limit hits per key in each fixed window. Counters
// live in Valkey so every server instance shares them.
type Limiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewLimiter returns a Limiter storing its counters under "ratelimit:".
func NewLimiter(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: "ratelimit:",
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
// When Valkey cannot be reached the request is allowed and a warning is
// logged; rate limiting must not take the API down with it.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.hit(ctx, key)
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "error", err)
		return true
	}
	return count <= l.limit
}

// hit increments the counter of key in the current window. The counter key
// carries the window number, so it expires on its own once the window ends.
func (l *Limiter) hit(ctx context.Context, key string) (int64, error) {
	slot := l.now().UnixNano() / int64(l.window)
	counterKey := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, counterKey)
		pipe.PExpire(ctx, counterKey, l.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("valkey incr %s: %w", counterKey, err)
	}
	return incr.Val(), nil
}
