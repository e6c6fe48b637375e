package extract

import (
	"github.com/fwojciec/tenk"
)

// Ensure TextStrategy implements tenk.Strategy.
var _ tenk.Strategy = (*TextStrategy)(nil)

// TextStrategy scans raw markup with the definition's markup patterns. It is
// the last resort of the chain and the only strategy that works on documents
// without a structural tree.
type TextStrategy struct {
	validator tenk.ContentValidator
}

// NewTextStrategy creates a TextStrategy that confirms candidates with
// validator.
func NewTextStrategy(validator tenk.ContentValidator) *TextStrategy {
	return &TextStrategy{validator: validator}
}

// Name returns the strategy name.
func (s *TextStrategy) Name() string {
	return "text-scan"
}

// Extract locates the span. Start rules are tried in rank order and matches
// in offset order; the first match outside any table of contents whose
// lookahead window validates wins.
func (s *TextStrategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	markup := doc.Markup
	if markup == "" {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "empty document")
	}

	lookahead := def.LookaheadSize
	if lookahead <= 0 {
		lookahead = tenk.DefaultLookaheadSize
	}

	var matched, toc, rejected, empty int
	seen := make(map[int]bool)
	for rank, rule := range def.StartRules {
		if rule.Markup == nil {
			continue
		}
		for _, loc := range rule.Markup.FindAllStringIndex(markup, -1) {
			offset := headStart(markup, loc[0], 0)
			if seen[offset] {
				continue
			}
			seen[offset] = true
			matched++

			if ok, _ := IsTOC(markup, tenk.TextStart(markup, loc[0]), &def.TOC); ok {
				toc++
				continue
			}

			begin := contentStart(markup, loc[1])
			if s.validator != nil {
				window := markup[begin:chunkEnd(markup, begin, lookahead)]
				if !s.validator.Validate(window, &def.Indicators).OK {
					rejected++
					continue
				}
			}

			finish, end := ResolveEnd(markup, max(begin, offset+def.SkipSize), def)
			if end == nil {
				finish = chunkEnd(markup, begin, def.MaxChunkSize)
			}
			if finish <= begin {
				empty++
				continue
			}

			return &tenk.Span{
				Start: tenk.Candidate{
					Offset: offset,
					Rule:   rule.Name,
					Rank:   rank,
					Text:   markupText(markup[loc[0]:loc[1]]),
				},
				End:     end,
				Content: markup[begin:finish],
			}, nil
		}
	}

	if matched == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no start marker matched")
	}
	return nil, tenk.Errorf(tenk.ENOTFOUND,
		"%d start marker candidates: %d in table of contents, %d failed lookahead validation, %d empty",
		matched, toc, rejected, empty)
}
