// Package ratelimit implements sliding-window admission control for
// pipeline-invoking endpoints, keyed by client identity.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed        bool
	RetryAfterSecs int
	Remaining      int
}

// Limiter tracks one chronologically ordered window of request
// timestamps per client. Safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// New creates a Limiter allowing maxRequests per client per trailing window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		windows:     make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow checks whether clientID may start another pipeline invocation
// now. Accepted requests are recorded; rejections carry the number of
// seconds after which a retry can succeed.
func (l *Limiter) Allow(clientID string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	win := l.pruneLocked(clientID, now)

	if len(win) >= l.maxRequests {
		retryAfter := int(win[0].Add(l.window).Sub(now).Seconds()) + 1
		return Decision{Allowed: false, RetryAfterSecs: retryAfter}
	}

	l.windows[clientID] = append(win, now)
	return Decision{Allowed: true, Remaining: l.maxRequests - len(win) - 1}
}

// Sweep drops client windows with no timestamp inside the trailing
// window, bounding memory across long process lifetimes. Returns the
// number of clients removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	removed := 0
	for clientID := range l.windows {
		if len(l.pruneLocked(clientID, now)) == 0 {
			removed++
		}
	}
	return removed
}

// Run sweeps idle client windows on the given interval until ctx is
// canceled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("ratelimit.Limiter: sweep loop stopped")
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				log.Printf("ratelimit.Limiter: swept %d idle client windows", n)
			}
		}
	}
}

// Clients returns the number of tracked client windows.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// pruneLocked trims the expired prefix of a client's window. Windows
// that prune to empty are deleted from the map.
func (l *Limiter) pruneLocked(clientID string, now time.Time) []time.Time {
	win := l.windows[clientID]
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(win) && win[i].Before(cutoff) {
		i++
	}
	win = win[i:]

	if len(win) == 0 {
		delete(l.windows, clientID)
		return nil
	}
	l.windows[clientID] = win
	return win
}

func (l *Limiter) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}
