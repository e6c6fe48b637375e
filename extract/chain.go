package extract

import (
	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/goquery"
)

// Default returns an Extractor running the standard chain, in priority order:
// heading, toc-anchor, statement-heading, part-scoped and text-scan.
func Default() *Extractor {
	v := goquery.NewValidator()
	return NewExtractor(v,
		goquery.NewHeadingStrategy(v),
		goquery.NewAnchorStrategy(v),
		goquery.NewStatementStrategy(v),
		goquery.NewScopedStrategy(v),
		NewTextStrategy(v),
	)
}

// Parse returns a document with a structural tree for markup.
func Parse(markup string) *tenk.Document {
	return goquery.NewDocument(markup)
}
