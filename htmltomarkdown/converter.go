// Package htmltomarkdown renders extracted sections as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tenk"
)

// Ensure Converter implements tenk.Converter at compile time.
var _ tenk.Converter = (*Converter)(nil)

// noise is removed before conversion: scripts, styles and the hidden inline
// XBRL header that filings carry.
const noise = "script, style, [hidden], [style*='display:none'], [style*='display: none'], ix\\:header"

// inlineXBRL tags wrap facts in the visible text; their content is kept.
const inlineXBRL = "ix\\:nonfraction, ix\\:nonnumeric, ix\\:fraction, ix\\:continuation"

// Converter wraps html-to-markdown to convert filing sections to Markdown.
// Tables are kept as Markdown tables.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms section markup into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tenk.Errorf(tenk.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(clean(html))
	if err != nil {
		return "", err
	}

	return result, nil
}

// clean strips noise and unwraps inline XBRL tags. Markup that cannot be
// parsed is converted as is.
func clean(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find(noise).Remove()
	doc.Find(inlineXBRL).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return out
}
