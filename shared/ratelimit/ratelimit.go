// Package ratelimit implements fixed-window request limits keyed by an
// arbitrary string, backed either by process memory or by Redis.
package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close()
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// Remaining returns how many requests are still allowed in the window.
func (d Decision) Remaining(limit int) int {
	if remaining := limit - d.Count; remaining > 0 {
		return remaining
	}
	return 0
}

// counter stores hit counts. hit adds one to key and returns the new count
// with the time left in the key's window. A key without a window is given
// one of length span, in the same step as the increment.
type counter interface {
	hit(ctx context.Context, key string, span time.Duration) (int64, time.Duration, error)
	close() error
}

// limiter turns counter hits into decisions. A failing counter lets the
// request through.
type limiter struct {
	counter counter
	logger  *zerolog.Logger
	now     func() time.Time
}

func (l *limiter) Allow(ctx context.Context, key string, limit int, span time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if span <= 0 {
		span = time.Minute
	}

	count, ttl, err := l.counter.hit(ctx, key, span)
	if err != nil {
		if l.logger != nil {
			l.logger.Error().Err(err).Msg("rate limit counter unavailable, allowing request")
		}
		return Decision{Allowed: true}
	}
	if ttl <= 0 || ttl > span {
		ttl = span
	}

	return Decision{
		Allowed:   count <= int64(limit),
		Count:     int(count),
		WindowEnd: l.now().Add(ttl),
	}
}

func (l *limiter) Close() {
	_ = l.counter.close()
}
