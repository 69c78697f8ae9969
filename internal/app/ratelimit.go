package app

import (
	"sync"
	"time"
)

// ConnectLimiter is a sliding-window limiter on upgrade attempts,
// keyed by client token. Keeps a reconnect loop from hammering the
// handshake path; steady connected traffic is unaffected.
type ConnectLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
}

func NewConnectLimiter(limit int, interval time.Duration) *ConnectLimiter {
	return &ConnectLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (l *ConnectLimiter) Allow(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-l.interval)

	attempts := l.history[token]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.history[token] = fresh
		return false
	}

	fresh = append(fresh, now)
	l.history[token] = fresh
	return true
}
