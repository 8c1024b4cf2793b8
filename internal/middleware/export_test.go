package middleware

import "time"

func (l *RateLimiter) SetClock(now func() time.Time) {
	l.now = now
}

func (l *RateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
