// Package ratelimit implements a fixed-window request limiter on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parceltrack/internal/pkg/errs"
)

const keyPrefix = "parceltrack:ratelimit:"

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindowLimiter counts requests per subject in fixed windows of equal
// length. A counter key expires with its window.
type FixedWindowLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

// NewFixedWindowLimiter returns ValueIsRequiredError for a nil client and
// ValueIsOutOfRangeError for a non-positive limit or a window
// shorter than a second.
func NewFixedWindowLimiter(client redis.Cmdable, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	if window < time.Second {
		return nil, errs.NewValueIsOutOfRangeError("window", window, time.Second, "unbounded")
	}
	return &FixedWindowLimiter{client: client, limit: limit, window: window}, nil
}

// Allow counts one request for subject in the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, subject string) (Decision, error) {
	k := keyPrefix + subject

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", subject, err)
	}

	count := int(incr.Val())
	if count <= l.limit {
		return Decision{Allowed: true, Remaining: l.limit - count}, nil
	}

	retry := ttl.Val()
	if retry <= 0 {
		retry = l.window
	}
	return Decision{Allowed: false, RetryAfter: retry}, nil
}
