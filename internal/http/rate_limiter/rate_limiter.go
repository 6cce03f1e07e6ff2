package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

func New(rps float64, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *Limiter) GetVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[ip] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

func (l *Limiter) Allow(ip string) bool {
	return l.GetVisitor(ip).Allow()
}

// Cleanup drops visitors idle for longer than maxIdle and returns how many
// were removed.
func (l *Limiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > maxIdle {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// StartVisitorCleanupLoop sweeps idle visitors every interval until ctx is done.
func (l *Limiter) StartVisitorCleanupLoop(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(maxIdle)
		}
	}
}
