// Package extract drives section extraction. The Extractor runs a chain of
// strategies over one document; the Batch runs the extractor over every
// filing found for a set of tickers.
package extract

import (
	"fmt"

	"github.com/fwojciec/tenk"
)

// Ensure Extractor implements tenk.SectionExtractor.
var _ tenk.SectionExtractor = (*Extractor)(nil)

// Extractor tries its strategies in order and returns the first span that
// passes the size gate and then the content gate.
type Extractor struct {
	Strategies []tenk.Strategy
	Validator  tenk.ContentValidator
}

// NewExtractor creates an Extractor with strategies in priority order.
func NewExtractor(validator tenk.ContentValidator, strategies ...tenk.Strategy) *Extractor {
	return &Extractor{Strategies: strategies, Validator: validator}
}

// Extract returns the extracted section, or an *tenk.ExtractionError listing
// every strategy's outcome.
func (e *Extractor) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.ExtractedSection, error) {
	if doc == nil {
		return nil, tenk.Errorf(tenk.EINVALID, "document required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	attempts := make([]tenk.Attempt, 0, len(e.Strategies))
	for _, s := range e.Strategies {
		span, err := s.Extract(doc, def)
		if err != nil {
			attempts = append(attempts, tenk.Attempt{Strategy: s.Name(), Code: attemptCode(err), Reason: tenk.ErrorMessage(err)})
			continue
		}
		if span == nil {
			attempts = append(attempts, tenk.Attempt{Strategy: s.Name(), Code: tenk.ENOTFOUND, Reason: "no span"})
			continue
		}

		if size := len(span.Content); size < def.MinSize {
			attempts = append(attempts, tenk.Attempt{
				Strategy: s.Name(),
				Code:     tenk.ETOOSMALL,
				Reason:   fmt.Sprintf("%d bytes, minimum %d", size, def.MinSize),
			})
			continue
		}

		if e.Validator != nil {
			if v := e.Validator.Validate(span.Content, &def.Indicators); !v.OK {
				attempts = append(attempts, tenk.Attempt{Strategy: s.Name(), Code: tenk.ECONTENT, Reason: v.Reason})
				continue
			}
		}

		return &tenk.ExtractedSection{
			SectionName:  def.Name,
			SectionTitle: def.TitleFrom(span.Start.Text),
			Content:      span.Content,
			FilingYear:   def.Metadata.FilingYear,
			CompanyName:  def.Metadata.CompanyName,
			Ticker:       def.Metadata.Ticker,
			Strategy:     s.Name(),
		}, nil
	}

	return nil, &tenk.ExtractionError{Section: def.Name, Attempts: attempts}
}

// attemptCode maps a strategy error onto an attempt code. Anything other than
// a rejected span counts as not found, so that a failing strategy never hides
// a later strategy's rejection.
func attemptCode(err error) string {
	switch code := tenk.ErrorCode(err); code {
	case tenk.ETOOSMALL, tenk.ECONTENT:
		return code
	default:
		return tenk.ENOTFOUND
	}
}
