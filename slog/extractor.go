package slog

import (
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
)

// Ensure LoggingExtractor implements tenk.SectionExtractor.
var _ tenk.SectionExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a SectionExtractor with logging. Successful
// extractions log the winning strategy; failures log every attempt at debug
// level.
type LoggingExtractor struct {
	next   tenk.SectionExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next tenk.SectionExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (section *tenk.ExtractedSection, err error) {
	defer func(begin time.Time) {
		var name string
		var meta tenk.Metadata
		if def != nil {
			name, meta = def.Name, def.Metadata
		}
		attrs := []any{
			"section", name,
			"ticker", meta.Ticker,
			"year", meta.FilingYear,
			"duration", time.Since(begin),
		}
		if err != nil {
			e.logger.Info("extract", append(attrs, "code", tenk.ErrorCode(err), "err", err)...)
			var xerr *tenk.ExtractionError
			if errors.As(err, &xerr) {
				for _, a := range xerr.Attempts {
					e.logger.Debug("strategy rejected",
						"section", name,
						"strategy", a.Strategy,
						"code", a.Code,
						"reason", a.Reason,
					)
				}
			}
			return
		}
		e.logger.Info("extract", append(attrs, "strategy", section.Strategy, "bytes", section.Size())...)
	}(time.Now())
	return e.next.Extract(doc, def)
}
