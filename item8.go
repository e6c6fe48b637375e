package tenk

import (
	"regexp"
	"strings"
)

// Defaults used by Item8.
const (
	DefaultMinSize          = 1000
	DefaultLookaheadSize    = 10_000
	DefaultSkipSize         = 100
	DefaultMaxChunkSize     = 350_000
	DefaultHeadingMaxLength = 160
	DefaultMinWindow        = 400
	DefaultTOCWindowPercent = 10
	DefaultTOCMinOffset     = 30_000
)

// DefaultHeaderSelector selects the elements filings use for headings.
const DefaultHeaderSelector = "h1, h2, h3, h4, h5, h6, p, div, span, font, b, strong, a, td, tr"

// gap matches whitespace, entities and tags that filings interleave between
// the words of a heading.
const gap = `(?:\s|&nbsp;|&#160;|&#xa0;|<[^>]*>)*`

// CompileMarkup builds a case-insensitive raw-markup pattern whose words may
// be separated by tags, entities and whitespace. The leading ">" anchors the
// match at the start of an element's text.
func CompileMarkup(words ...string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)>` + gap + strings.Join(words, gap))
}

// CompileText builds a case-insensitive pattern for cleaned text.
func CompileText(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)` + expr)
}

var (
	leadingGap  = regexp.MustCompile(`^` + gap)
	trailingGap = regexp.MustCompile(gap + `<?$`)
)

// TextStart returns the offset of the first word of the heading whose markup
// rule matched at s, skipping the ">" that anchors the match and the tags and
// whitespace after it.
func TextStart(markup string, s int) int {
	if s < 0 || s >= len(markup) || markup[s] != '>' {
		return s
	}
	return s + 1 + len(leadingGap.FindString(markup[s+1:]))
}

// MatchedText narrows the markup rule match at loc to the heading text it
// covers, without the anchoring ">" and "<" or the tags beside them. It
// reports false when that text crosses a tag.
func MatchedText(markup string, loc []int) (int, int, bool) {
	s, e := loc[0], loc[1]
	if s < e && markup[s] == '>' {
		s += 1 + len(leadingGap.FindString(markup[s+1:e]))
	}
	if s >= e {
		return 0, 0, false
	}
	e = s + trailingGap.FindStringIndex(markup[s:e])[0]
	if s >= e || strings.ContainsAny(markup[s:e], "<>") {
		return 0, 0, false
	}
	return s, e, true
}

func markup(words ...string) *regexp.Regexp {
	return must(CompileMarkup(words...))
}

func text(expr string) *regexp.Regexp {
	return must(CompileText(expr))
}

func must(re *regexp.Regexp, err error) *regexp.Regexp {
	if err != nil {
		panic(err)
	}
	return re
}

// Item8 returns the definition of Item 8, Financial Statements and
// Supplementary Data. Each call returns a fresh value.
func Item8() *SectionDefinition {
	return &SectionDefinition{
		Name:  "Item 8",
		Title: "Financial Statements and Supplementary Data",
		StartRules: []Rule{
			{
				Name:   "item-8-full-title",
				Text:   text(`^\s*Item\s*8\s*[.:\-–—]?\s*Financial\s+Statements\s+and\s+Supplementary\s+Data\s*\.?\s*$`),
				Markup: markup(`Item`, `8`, `[.:\-–—]?`, `Financial`, `Statements`, `and`, `Supplementary`, `Data`),
			},
			{
				Name:   "item-8-financial-statements",
				Text:   text(`^\s*Item\s*8\s*[.:\-–—]?\s*Financial\s+Statements\b`),
				Markup: markup(`Item`, `8`, `[.:\-–—]?`, `Financial`, `Statements`),
			},
			{
				Name:   "item-8-bare",
				Text:   text(`^\s*Item\s*8\s*[.:]?\s*$`),
				Markup: markup(`Item`, `8\b[.:]?`, `<`),
				Broad:  true,
			},
		},
		EndRules: []Rule{
			{
				Name:   "item-9-changes",
				Text:   text(`^\s*Item\s*9\s*[.:\-–—]?\s*Changes\b`),
				Markup: markup(`Item`, `9`, `[.:\-–—]?`, `Changes\b`),
			},
			{
				Name:   "item-9",
				Text:   text(`^\s*Item\s*9[ABC]?\b`),
				Markup: markup(`Item`, `9[ABC]?\b`),
			},
			{
				Name:   "part-iii",
				Text:   text(`^\s*PART\s+III\b`),
				Markup: markup(`PART`, `III\b`),
			},
			{
				Name:   "item-10",
				Text:   text(`^\s*Item\s*10\b`),
				Markup: markup(`Item`, `10\b`),
			},
			{
				Name:   "signatures",
				Text:   text(`^\s*SIGNATURES?\s*$`),
				Markup: markup(`SIGNATURES?`, `<`),
			},
			{
				Name:   "exhibit-index",
				Text:   text(`^\s*EXHIBIT\s+INDEX\b`),
				Markup: markup(`EXHIBIT`, `INDEX\b`),
			},
			{
				Name:   "exhibits",
				Text:   text(`^\s*(?:Item\s*15\s*[.:\-–—]?\s*)?EXHIBITS?\b`),
				Markup: markup(`EXHIBITS?\b`),
			},
		},
		Statements: []Rule{
			{Name: "auditor-report", Text: text(`^\s*Report\s+of\s+Independent\s+Registered\s+Public\s+Accounting\s+Firm\b`)},
			{Name: "statement-index", Text: text(`^\s*Index\s+to\s+(?:Consolidated\s+)?Financial\s+Statements\b`)},
			{Name: "balance-sheets", Text: text(`^\s*Consolidated\s+Balance\s+Sheets?\b`)},
			{Name: "statements-of-operations", Text: text(`^\s*Consolidated\s+Statements?\s+of\s+(?:Operations|Income|Earnings)\b`)},
		},
		Scope: &Scope{
			Start: []Rule{
				{Name: "part-ii", Text: text(`^\s*PART\s+II\b`)},
			},
			End: []Rule{
				{Name: "part-iii", Text: text(`^\s*PART\s+III\b`)},
				{Name: "part-iv", Text: text(`^\s*PART\s+IV\b`)},
			},
		},
		TOC: TOCConfig{
			ContainerKeywords: []string{"toc", "contents", "tableofcontents"},
			BareItem:          text(`^\s*Item\s*\d+[A-Z]?\s*\.?\s*$`),
			ItemLabel:         text(`^\s*Item\s*\d+[A-Z]?\b`),
			Indicators: []*regexp.Regexp{
				text(`table\s+of\s+contents`),
				text(`\b(?:class|id)\s*=\s*["'][^"']*\btoc\b`),
				text(`>\s*INDEX\s*<`),
			},
			EndMarkers: []*regexp.Regexp{
				text(`<hr\b`),
				text(`page-break-(?:before|after)\s*:\s*always`),
				text(`<h[1-6][^>]*>` + gap + `PART` + gap + `I\b`),
				text(`<h[1-6][^>]*>` + gap + `Item` + gap + `1\b[.:]?` + gap + `Business`),
			},
			WindowPercent: DefaultTOCWindowPercent,
			MinOffset:     DefaultTOCMinOffset,
		},
		Indicators: Indicators{
			Phrases: []Rule{
				{Name: "auditor-report", Text: text(`Report\s+of\s+Independent\s+Registered\s+Public\s+Accounting\s+Firm`)},
				{Name: "balance-sheets", Text: text(`Consolidated\s+Balance\s+Sheets?`)},
				{Name: "statements-of-operations", Text: text(`Consolidated\s+Statements?\s+of\s+(?:Operations|Income|Earnings)`)},
				{Name: "statements-of-cash-flows", Text: text(`Consolidated\s+Statements?\s+of\s+Cash\s+Flows?`)},
				{Name: "statements-of-comprehensive-income", Text: text(`Consolidated\s+Statements?\s+of\s+Comprehensive\s+(?:Income|Loss)`)},
				{Name: "statements-of-equity", Text: text(`Consolidated\s+Statements?\s+of\s+(?:Changes\s+in\s+)?(?:Stockholders|Shareholders)['’]?\s+Equity`)},
				{Name: "notes", Text: text(`Notes\s+to\s+(?:the\s+)?(?:Consolidated\s+)?Financial\s+Statements`)},
			},
			TableKeywords: []string{
				"total assets",
				"total liabilities",
				"net income",
				"net loss",
				"net revenue",
				"total revenue",
				"cash and cash equivalents",
				"retained earnings",
				"earnings per share",
			},
			MinWindow: DefaultMinWindow,
		},
		HeaderSelector:   DefaultHeaderSelector,
		HeadingMaxLength: DefaultHeadingMaxLength,
		MinSize:          DefaultMinSize,
		LookaheadSize:    DefaultLookaheadSize,
		SkipSize:         DefaultSkipSize,
		MaxChunkSize:     DefaultMaxChunkSize,
	}
}
