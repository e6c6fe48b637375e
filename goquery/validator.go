package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tenk"
)

// Ensure Validator implements tenk.ContentValidator.
var _ tenk.ContentValidator = (*Validator)(nil)

// Validator checks fragments for financial statement indicators.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate passes a fragment whose text carries a canonical statement phrase,
// or which holds a table mentioning a statement keyword and is long enough
// not to be a stray table.
func (v *Validator) Validate(markup string, ind *tenk.Indicators) tenk.Verdict {
	if strings.TrimSpace(markup) == "" {
		return tenk.Verdict{Reason: "empty content"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return tenk.Verdict{Reason: fmt.Sprintf("unparseable content: %v", err)}
	}
	doc.Find("script, style").Remove()

	text := tenk.CleanText(doc.Text())
	for _, p := range ind.Phrases {
		if p.Text != nil && p.Text.MatchString(text) {
			return tenk.Verdict{OK: true, Reason: fmt.Sprintf("phrase %s", p.Name)}
		}
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return tenk.Verdict{Reason: "no statement phrase and no tables"}
	}
	if len(markup) < ind.MinWindow {
		return tenk.Verdict{Reason: fmt.Sprintf("no statement phrase and content shorter than %d bytes", ind.MinWindow)}
	}

	tableText := strings.ToLower(tenk.CleanText(tables.Text()))
	for _, kw := range ind.TableKeywords {
		if strings.Contains(tableText, strings.ToLower(kw)) {
			return tenk.Verdict{OK: true, Reason: fmt.Sprintf("table with %q", kw)}
		}
	}
	return tenk.Verdict{Reason: "no statement phrase and no statement keywords in tables"}
}
