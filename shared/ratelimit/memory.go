package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = time.Minute

type memoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	now       func() time.Time
	nextSweep time.Time
}

type window struct {
	hits int64
	end  time.Time
}

// NewMemory returns a process-local limiter. Expired windows are dropped
// while hits are recorded, so no background goroutine is involved.
func NewMemory() Limiter {
	return &limiter{counter: newMemoryCounter(time.Now), now: time.Now}
}

func newMemoryCounter(now func() time.Time) *memoryCounter {
	return &memoryCounter{
		windows: make(map[string]*window),
		now:     now,
	}
}

func (c *memoryCounter) hit(_ context.Context, key string, span time.Duration) (int64, time.Duration, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(sweepEvery)
	}

	w, ok := c.windows[key]
	if !ok || !now.Before(w.end) {
		w = &window{end: now.Add(span)}
		c.windows[key] = w
	}
	w.hits++

	return w.hits, w.end.Sub(now), nil
}

func (c *memoryCounter) sweep(now time.Time) {
	for key, w := range c.windows {
		if !now.Before(w.end) {
			delete(c.windows, key)
		}
	}
}

func (c *memoryCounter) close() error {
	return nil
}
