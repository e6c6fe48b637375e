package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingSectionStore implements tenk.SectionStore.
var _ tenk.SectionStore = (*LoggingSectionStore)(nil)

// LoggingSectionStore wraps a SectionStore with debug logging.
type LoggingSectionStore struct {
	next   tenk.SectionStore
	logger *slog.Logger
}

// NewLoggingSectionStore creates a new LoggingSectionStore.
func NewLoggingSectionStore(next tenk.SectionStore, logger *slog.Logger) *LoggingSectionStore {
	return &LoggingSectionStore{next: next, logger: logger}
}

// SaveSection delegates to the wrapped store and logs the written paths.
func (s *LoggingSectionStore) SaveSection(ctx context.Context, section *tenk.ExtractedSection) (saved *tenk.SavedSection, err error) {
	defer func(begin time.Time) {
		var path string
		if saved != nil {
			path = saved.ContentPath
		}
		s.logger.Info("save section",
			"ticker", section.Ticker,
			"year", section.FilingYear,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveSection(ctx, section)
}
