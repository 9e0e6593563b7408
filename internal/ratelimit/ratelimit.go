// Package ratelimit implements a fixed-window counter over the shared
// expiring store. The window resets at a fixed boundary, so bursts
// straddling a boundary can admit up to twice the limit; that tradeoff
// buys O(1) state per identity. On store failure the limiter fails
// open: availability wins over strict enforcement.
package ratelimit

import (
	"context"
	"time"

	"notify-gateway/internal/store"

	"github.com/rs/zerolog"
)

// Decision is the outcome of a limit check. Callers must branch on
// Allowed; Degraded marks fail-open results produced while the store
// was unreachable.
type Decision struct {
	Allowed   bool
	Count     int64
	Limit     int
	Remaining int
	Degraded  bool
}

type Limiter struct {
	store store.Store
	log   zerolog.Logger
}

func NewLimiter(s store.Store, log zerolog.Logger) *Limiter {
	return &Limiter{store: s, log: log.With().Str("component", "ratelimit").Logger()}
}

// Check counts one action for identity within the rolling fixed window.
// The TTL is set exactly once, on the increment that creates the
// counter; later increments inside the window leave it untouched.
func (l *Limiter) Check(ctx context.Context, namespace, identity string, limit int, window time.Duration) Decision {
	key := store.Key(namespace, identity)

	count, err := l.store.Increment(ctx, key)
	if err != nil {
		l.log.Warn().Err(err).Str("identity", identity).Msg("store unavailable, failing open")
		return Decision{Allowed: true, Limit: limit, Remaining: limit, Degraded: true}
	}
	if count == 1 {
		l.store.Expire(ctx, key, window)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Count:     count,
		Limit:     limit,
		Remaining: remaining,
	}
}
