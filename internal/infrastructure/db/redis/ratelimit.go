package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter implements a fixed-window request counter backed by Redis.
// Key format: ratelimit:<scope>:<subject>
type WindowCounter struct {
	client *redis.Client
}

// NewWindowCounter creates a WindowCounter wrapping the given Redis client.
func NewWindowCounter(client *redis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Hit increments the counter for subject within scope and returns the new
// count plus the time left in the current window. The window starts on the
// first hit.
func (w *WindowCounter) Hit(ctx context.Context, scope, subject string, window time.Duration) (int64, time.Duration, error) {
	key := w.key(scope, subject)

	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit hit: %w", err)
	}

	left := ttl.Val()
	if left < 0 {
		left = window
	}
	return incr.Val(), left, nil
}

func (w *WindowCounter) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}
