package mock

import (
	"github.com/fwojciec/tenk"
)

var _ tenk.SectionExtractor = (*SectionExtractor)(nil)

// SectionExtractor is a mock implementation of tenk.SectionExtractor.
type SectionExtractor struct {
	ExtractFn func(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.ExtractedSection, error)
}

func (e *SectionExtractor) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.ExtractedSection, error) {
	return e.ExtractFn(doc, def)
}

var _ tenk.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of tenk.Strategy.
type Strategy struct {
	NameFn    func() string
	ExtractFn func(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error)
}

func (s *Strategy) Name() string {
	return s.NameFn()
}

func (s *Strategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	return s.ExtractFn(doc, def)
}

var _ tenk.ContentValidator = (*ContentValidator)(nil)

// ContentValidator is a mock implementation of tenk.ContentValidator.
type ContentValidator struct {
	ValidateFn func(markup string, indicators *tenk.Indicators) tenk.Verdict
}

func (v *ContentValidator) Validate(markup string, indicators *tenk.Indicators) tenk.Verdict {
	return v.ValidateFn(markup, indicators)
}
