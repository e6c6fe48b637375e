package http

import (
	"context"
	"sync"

	"github.com/fwojciec/tenk"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond stays below the ten requests per second EDGAR
// allows each client.
const DefaultRequestsPerSecond = 8

var _ tenk.RateLimiter = (*HostLimiter)(nil)

// HostLimiter provides per-host rate limiting using token buckets. EDGAR
// serves documents from www.sec.gov and indexes from data.sec.gov; each host
// gets its own bucket.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host, without bursting.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
