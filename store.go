package tenk

import (
	"context"
	"time"
)

// SavedSection lists the files written for a section.
type SavedSection struct {
	ContentPath  string
	MetadataPath string

	// MarkdownPath is empty when no Markdown rendition was written.
	MarkdownPath string
}

// SectionStore persists extracted sections.
type SectionStore interface {
	SaveSection(ctx context.Context, section *ExtractedSection) (*SavedSection, error)
}

// DebugStore keeps diagnostic artifacts for a filing: the raw document, a
// copy with pattern matches highlighted, and the reason extraction failed.
type DebugStore interface {
	SaveFiling(ctx context.Context, filing *Filing, markup string, def *SectionDefinition) error
	SaveFailure(ctx context.Context, filing *Filing, err error) error
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// Extraction is a ledger entry for one extraction attempt.
type Extraction struct {
	ID              string    `json:"id"`
	Ticker          string    `json:"ticker"`
	CompanyName     string    `json:"companyName"`
	FilingYear      int       `json:"filingYear"`
	AccessionNumber string    `json:"accessionNumber"`
	SourceURL       string    `json:"sourceUrl"`
	Section         string    `json:"section"`
	Strategy        string    `json:"strategy"`
	Code            string    `json:"code"`
	Message         string    `json:"message"`
	Size            int       `json:"size"`
	ContentHash     string    `json:"contentHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Succeeded reports whether the attempt produced a section.
func (e *Extraction) Succeeded() bool {
	return e.Code == ""
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.Ticker == "" {
		return Errorf(EINVALID, "extraction ticker required")
	}
	if e.Section == "" {
		return Errorf(EINVALID, "extraction section required")
	}
	return nil
}

// ExtractionFilter represents a filter used by FindExtractions.
type ExtractionFilter struct {
	Ticker     *string
	FilingYear *int

	Offset int
	Limit  int
}

// ExtractionService records extraction attempts.
type ExtractionService interface {
	// CreateExtraction records an attempt. ID and CreatedAt are assigned
	// when empty.
	CreateExtraction(ctx context.Context, e *Extraction) error

	// FindExtractions returns attempts matching the filter, newest first.
	FindExtractions(ctx context.Context, filter ExtractionFilter) ([]*Extraction, error)
}
