// Package rate provides a fixed-window request limiter keyed by caller.
package rate

import (
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether the caller identified by key may proceed, and
	// how long until the current window resets when it may not.
	Allow(key string) (bool, time.Duration)
}

// MemoryLimiter is a process-local fixed-window limiter. Good enough for a
// single-instance façade; there is no shared state to coordinate.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemory(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

func (m *MemoryLimiter) Allow(key string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		m.sweep(now)
		w = &window{resetAt: now.Add(m.period)}
		m.windows[key] = w
	}

	if w.count >= m.limit {
		return false, time.Until(w.resetAt)
	}
	w.count++
	return true, time.Until(w.resetAt)
}

// sweep drops expired windows so the map does not grow with one entry per
// client IP forever. Called with the lock held.
func (m *MemoryLimiter) sweep(now time.Time) {
	if len(m.windows) < 4096 {
		return
	}
	for key, w := range m.windows {
		if now.After(w.resetAt) {
			delete(m.windows, key)
		}
	}
}
