package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most max events per key within a sliding window
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	events map[string][]time.Time
	now    func() time.Time

	lastPurge time.Time
}

// New creates a limiter. A non-positive max disables limiting.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		events: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// PerMinute creates a limiter with a one minute window
func PerMinute(max int) *Limiter {
	return New(max, time.Minute)
}

// Allow records an event for key and reports whether it is within the limit.
// Rejected events are not recorded.
func (l *Limiter) Allow(key string) bool {
	if l.max <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= l.window {
		l.purge(now)
	}

	recent := l.prune(key, now)
	if len(recent) >= l.max {
		l.events[key] = recent
		return false
	}
	l.events[key] = append(recent, now)
	return true
}

// RetryAfter returns how long until key may submit again
func (l *Limiter) RetryAfter(key string) time.Duration {
	if l.max <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	l.events[key] = recent
	if len(recent) < l.max {
		return 0
	}
	return recent[0].Add(l.window).Sub(now)
}

// Purge drops keys without events in the current window. Allow also
// purges once per window.
func (l *Limiter) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.purge(l.now())
}

func (l *Limiter) purge(now time.Time) {
	l.lastPurge = now
	for key := range l.events {
		if len(l.prune(key, now)) == 0 {
			delete(l.events, key)
		}
	}
}

// prune returns the events of key newer than now-window
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	times := l.events[key]
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}
