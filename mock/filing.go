package mock

import (
	"context"

	"github.com/fwojciec/tenk"
)

var _ tenk.FilingService = (*FilingService)(nil)

// FilingService is a mock implementation of tenk.FilingService.
type FilingService struct {
	FindFilingsFn func(ctx context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error)
}

func (s *FilingService) FindFilings(ctx context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error) {
	return s.FindFilingsFn(ctx, filter)
}
