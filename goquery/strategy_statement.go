package goquery

import (
	"github.com/fwojciec/tenk"
)

// Ensure StatementStrategy implements tenk.Strategy.
var _ tenk.Strategy = (*StatementStrategy)(nil)

// StatementStrategy starts the section at the first statement heading, such
// as the auditor's report, for filings whose section heading cannot be
// located. When a scope is defined the search begins after its start header.
type StatementStrategy struct {
	validator tenk.ContentValidator
}

// NewStatementStrategy creates a StatementStrategy.
func NewStatementStrategy(validator tenk.ContentValidator) *StatementStrategy {
	return &StatementStrategy{validator: validator}
}

// Name returns the strategy name.
func (s *StatementStrategy) Name() string {
	return "statement-heading"
}

// Extract locates the span.
func (s *StatementStrategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	if len(def.Statements) == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no statement headings defined")
	}

	t, err := newTree(doc, def)
	if err != nil {
		return nil, err
	}

	var r region
	if def.Scope != nil {
		r.after = t.firstMatch(def.Scope.Start, region{})
	}

	st, c := t.findStart(def.Statements, true, r, s.validator)
	if st == nil {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "%s", c.reason("statement heading"))
	}

	// The statement heading opens the content.
	b := st.boundary
	b.at = true
	return t.span(b, st.cand, t.resolveEnd(b)), nil
}
