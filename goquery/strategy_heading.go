package goquery

import (
	"github.com/fwojciec/tenk"
)

// Ensure HeadingStrategy implements tenk.Strategy.
var _ tenk.Strategy = (*HeadingStrategy)(nil)

// HeadingStrategy finds the section heading among header-like elements using
// the definition's specific start rules.
type HeadingStrategy struct {
	validator tenk.ContentValidator
}

// NewHeadingStrategy creates a HeadingStrategy that confirms candidates with
// validator.
func NewHeadingStrategy(validator tenk.ContentValidator) *HeadingStrategy {
	return &HeadingStrategy{validator: validator}
}

// Name returns the strategy name.
func (s *HeadingStrategy) Name() string {
	return "heading"
}

// Extract locates the span.
func (s *HeadingStrategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	t, err := newTree(doc, def)
	if err != nil {
		return nil, err
	}

	st, c := t.findStart(def.StartRules, false, region{}, s.validator)
	if st == nil {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "%s", c.reason("start heading"))
	}

	return t.span(st.boundary, st.cand, t.resolveEnd(st.boundary)), nil
}
