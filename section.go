package tenk

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Rule is a named boundary pattern.
//
// Text is matched against the cleaned text of a header-like element and is
// used by the structural strategies. Markup is matched against raw markup and
// is used by the text fallback. Either may be nil, in which case the rule is
// skipped by the strategies that need it.
type Rule struct {
	Name   string
	Text   *regexp.Regexp
	Markup *regexp.Regexp

	// Broad marks loose rules, such as a bare item number, that only the
	// scoped and text strategies consider.
	Broad bool
}

// Indicators are the signals that a fragment contains financial statements.
type Indicators struct {
	// Phrases are canonical statement titles and report headings. A match
	// anywhere in the fragment text passes validation.
	Phrases []Rule

	// TableKeywords pass validation when the fragment contains a table, one
	// of the keywords appears in a table, and the fragment is at least
	// MinWindow bytes long.
	TableKeywords []string
	MinWindow     int
}

// TOCConfig tunes the table-of-contents discriminator.
type TOCConfig struct {
	// ContainerKeywords are matched case-insensitively against the words of
	// the class and id attributes of a candidate and its ancestors.
	ContainerKeywords []string

	// BareItem matches the text of a bare item label ("Item 7.") which
	// inside a table cell is treated as a contents entry.
	BareItem *regexp.Regexp

	// ItemLabel matches the start of a table row naming an item. A table
	// with more than one such row is a contents listing.
	ItemLabel *regexp.Regexp

	// Indicators mark where a contents listing begins in raw markup.
	Indicators []*regexp.Regexp

	// EndMarkers signal that the contents listing has ended.
	EndMarkers []*regexp.Regexp

	// WindowPercent and MinOffset bound the leading region of a document in
	// which the positional test applies.
	WindowPercent int
	MinOffset     int

	// RequireIndicator releases leading candidates that no indicator
	// precedes.
	RequireIndicator bool
}

// Scope restricts the scoped strategy to the region between a match of Start
// outside the table of contents and the next match of End.
type Scope struct {
	Start []Rule
	End   []Rule
}

// Metadata is stamped onto an extracted section.
type Metadata struct {
	FilingYear  int
	CompanyName string
	Ticker      string
}

// SectionDefinition describes how to find one named section of a filing.
type SectionDefinition struct {
	Name  string
	Title string

	// StartRules and EndRules are ordered by rank: earlier rules are more
	// specific and take priority.
	StartRules []Rule
	EndRules   []Rule

	// Statements are headings that open the section's content and are used
	// when the section heading itself cannot be located.
	Statements []Rule

	Scope      *Scope
	TOC        TOCConfig
	Indicators Indicators

	// HeaderSelector selects header-like elements in structural mode.
	HeaderSelector string

	// HeadingMaxLength bounds the cleaned text length of a header-like
	// element.
	HeadingMaxLength int

	MinSize       int
	LookaheadSize int

	// SkipSize is the distance after a text-mode start before end markers
	// are searched.
	SkipSize int

	// MaxChunkSize bounds the content when no end marker is found.
	MaxChunkSize int

	Metadata Metadata
}

// Validate returns an error if the definition cannot drive extraction.
func (d *SectionDefinition) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "section name required")
	}
	if len(d.StartRules) == 0 {
		return Errorf(EINVALID, "section %q requires at least one start rule", d.Name)
	}
	if len(d.EndRules) == 0 {
		return Errorf(EINVALID, "section %q requires at least one end rule", d.Name)
	}
	if d.MinSize < 0 {
		return Errorf(EINVALID, "section %q minimum size must not be negative", d.Name)
	}
	if d.MaxChunkSize <= 0 {
		return Errorf(EINVALID, "section %q maximum chunk size must be positive", d.Name)
	}
	return nil
}

// WithMetadata returns a copy of the definition stamped with m. Rules are
// shared with the receiver.
func (d *SectionDefinition) WithMetadata(m Metadata) *SectionDefinition {
	c := *d
	c.Metadata = m
	return &c
}

// TitleFrom derives the section title from the cleaned text of a start
// header. "Item 8. Financial Statements" yields "Financial Statements". When
// the heading does not begin with the section name or carries nothing after
// it, the definition's title is returned.
func (d *SectionDefinition) TitleFrom(heading string) string {
	words := strings.Fields(d.Name)
	if len(words) == 0 {
		return d.Title
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	prefix, err := regexp.Compile(`(?i)^\s*` + strings.Join(words, `\s*`) + `\b[\s.:\-–—]*`)
	if err != nil {
		return d.Title
	}
	heading = CleanText(heading)
	loc := prefix.FindStringIndex(heading)
	if loc == nil {
		return d.Title
	}
	rest := strings.TrimRight(strings.TrimSpace(heading[loc[1]:]), ".")
	if rest == "" {
		return d.Title
	}
	return rest
}

// ExtractedSection is a successfully extracted section.
type ExtractedSection struct {
	SectionName  string `json:"sectionName"`
	SectionTitle string `json:"sectionTitle"`
	Content      string `json:"content"`
	FilingYear   int    `json:"filingYear"`
	CompanyName  string `json:"companyName"`
	Ticker       string `json:"ticker"`

	// Strategy names the strategy that produced the content.
	Strategy string `json:"strategy"`
}

// Size returns the content length in bytes.
func (s *ExtractedSection) Size() int {
	return len(s.Content)
}

// Hash returns the xxhash of the content as a hex string. The saved metadata
// and the ledger both record it.
func (s *ExtractedSection) Hash() string {
	return strconv.FormatUint(xxhash.Sum64String(s.Content), 16)
}

// Verdict is the outcome of content validation.
type Verdict struct {
	OK     bool
	Reason string
}

// ContentValidator decides whether a fragment of markup contains the
// expected statement indicators.
type ContentValidator interface {
	Validate(markup string, indicators *Indicators) Verdict
}

// Strategy locates at most one candidate span for a section. A strategy that
// finds nothing returns an ENOTFOUND error describing why.
type Strategy interface {
	Name() string
	Extract(doc *Document, def *SectionDefinition) (*Span, error)
}

// SectionExtractor extracts a section from a document. Implementations are
// pure: the same document and definition always give the same result.
type SectionExtractor interface {
	Extract(doc *Document, def *SectionDefinition) (*ExtractedSection, error)
}
