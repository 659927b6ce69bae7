// Package ratelimit implements fixed-window request counting backed by
// the shared KV, so limits hold across stateless instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ndanilin/golinks/internal/database"
)

// Rule describes one fixed window: at most Limit requests per Window.
type Rule struct {
	Limit  int64
	Window time.Duration
}

// Limiter counts requests per (purpose, client) pair. Counters live in
// the KV under rate:{purpose}:{client} with a TTL equal to the window,
// so stale windows expire on their own.
type Limiter struct {
	kv database.KV
}

func New(kv database.KV) *Limiter {
	return &Limiter{kv: kv}
}

// Allow records one request for the client under the given purpose and
// reports whether it fits the rule's window.
func (l *Limiter) Allow(ctx context.Context, purpose, clientID string, rule Rule) (bool, error) {
	const op = "ratelimit.Limiter.Allow"

	key := fmt.Sprintf("rate:%s:%s", purpose, clientID)

	count, err := l.kv.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s: failed to increment counter: %w", op, err)
	}

	// First hit opens the window; the TTL closes it.
	if count == 1 {
		if err := l.kv.Expire(ctx, key, rule.Window); err != nil {
			return false, fmt.Errorf("%s: failed to set counter ttl: %w", op, err)
		}
	}

	return count <= rule.Limit, nil
}
