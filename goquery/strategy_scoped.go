package goquery

import (
	"github.com/fwojciec/tenk"
)

// Ensure ScopedStrategy implements tenk.Strategy.
var _ tenk.Strategy = (*ScopedStrategy)(nil)

// ScopedStrategy restricts the search to the part of the filing that holds the
// section, such as PART II up to PART III, where the broad start rules are
// safe to apply. Every scope header outside a table of contents is tried in
// document order.
type ScopedStrategy struct {
	validator tenk.ContentValidator
}

// NewScopedStrategy creates a ScopedStrategy.
func NewScopedStrategy(validator tenk.ContentValidator) *ScopedStrategy {
	return &ScopedStrategy{validator: validator}
}

// Name returns the strategy name.
func (s *ScopedStrategy) Name() string {
	return "part-scoped"
}

// Extract locates the span.
func (s *ScopedStrategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	if def.Scope == nil || len(def.Scope.Start) == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no scope defined")
	}

	t, err := newTree(doc, def)
	if err != nil {
		return nil, err
	}

	var scopes int
	var c tally
	for scopeStart := t.firstMatch(def.Scope.Start, region{}); scopeStart != nil; scopeStart = t.firstMatch(def.Scope.Start, region{after: scopeStart}) {
		scopes++
		scopeEnd := t.firstMatch(def.Scope.End, region{after: scopeStart})

		st, sc := t.findStart(def.StartRules, true, region{after: scopeStart, before: scopeEnd}, s.validator)
		c.matched += sc.matched
		c.toc += sc.toc
		c.lookahead += sc.lookahead
		if st == nil {
			continue
		}

		var limit end
		if scopeEnd != nil {
			limit = end{
				node: t.block(scopeEnd),
				cand: &tenk.Candidate{Offset: t.order[scopeEnd], Node: scopeEnd, Rule: "scope-end", Text: t.text(scopeEnd)},
			}
		}
		return t.span(st.boundary, st.cand, t.resolveEnd(st.boundary, limit)), nil
	}

	if scopes == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no scope header outside the table of contents")
	}
	return nil, tenk.Errorf(tenk.ENOTFOUND, "%s within %d scopes", c.reason("start heading"), scopes)
}
