package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var _ tenk.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tenk.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ tenk.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of tenk.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (r *RateLimiter) Wait(ctx context.Context, host string) error {
	return r.WaitFn(ctx, host)
}
