// Package ratelimit implements a per-client fixed-window rate limit with
// background eviction of expired entries.
//
// The table is process-local and volatile: it resets on restart and is not
// shared across instances. Clients behind the same proxy or NAT share a key.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// Window is the length of the quota window. One submission is accepted
	// per client key per window.
	Window = 60 * time.Second

	// SweepInterval is how often the background sweep reclaims expired
	// entries.
	SweepInterval = 5 * time.Minute
)

type entry struct {
	resetAt time.Time
}

// Limiter tracks one accepted attempt per client key per window.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]entry
	window  time.Duration
	now     func() time.Time
}

// New creates a limiter with the given window length. Production callers
// pass Window; tests may shrink it.
func New(window time.Duration) *Limiter {
	return &Limiter{
		entries: make(map[string]entry),
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a submission from key is within quota. The first
// call for an unseen or expired key starts a new window and is allowed;
// any further call inside that window is not. Allow never fails.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = entry{resetAt: now.Add(l.window)}
		return true
	}
	return false
}

// Sweep deletes every entry whose window has expired and returns the number
// removed. Safe to call concurrently with Allow.
func (l *Limiter) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps the table every interval until ctx is cancelled. Intended to be
// started once at bootstrap in its own goroutine.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len returns the number of tracked entries.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
