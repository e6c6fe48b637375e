package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingFilingService implements tenk.FilingService.
var _ tenk.FilingService = (*LoggingFilingService)(nil)

// LoggingFilingService wraps a FilingService with debug logging.
type LoggingFilingService struct {
	next   tenk.FilingService
	logger *slog.Logger
}

// NewLoggingFilingService creates a new LoggingFilingService.
func NewLoggingFilingService(next tenk.FilingService, logger *slog.Logger) *LoggingFilingService {
	return &LoggingFilingService{next: next, logger: logger}
}

// FindFilings delegates to the wrapped service and logs the operation.
func (s *LoggingFilingService) FindFilings(ctx context.Context, filter tenk.FilingFilter) (filings []*tenk.Filing, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find filings",
			"ticker", filter.Ticker,
			"form", filter.Form,
			"start_year", filter.StartYear,
			"end_year", filter.EndYear,
			"count", len(filings),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindFilings(ctx, filter)
}
