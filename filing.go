package tenk

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filing is a single EDGAR filing.
type Filing struct {
	Ticker          string    `json:"ticker"`
	CompanyName     string    `json:"companyName"`
	CIK             string    `json:"cik"`
	Form            string    `json:"form"`
	AccessionNumber string    `json:"accessionNumber"`
	FilingDate      time.Time `json:"filingDate"`
	PrimaryDocument string    `json:"primaryDocument"`

	// DocumentURL is the absolute URL of the primary document.
	DocumentURL string `json:"documentUrl"`
}

// Year returns the year the filing was filed.
func (f *Filing) Year() int {
	return f.FilingDate.Year()
}

// PrimaryDocumentPath returns the archive path of the primary document
// relative to the EDGAR archive root: "<cik>/<accession without dashes>/<doc>".
func (f *Filing) PrimaryDocumentPath() string {
	cik := strings.TrimLeft(f.CIK, "0")
	return fmt.Sprintf("%s/%s/%s", cik, strings.ReplaceAll(f.AccessionNumber, "-", ""), f.PrimaryDocument)
}

// Metadata returns the section metadata for the filing.
func (f *Filing) Metadata() Metadata {
	return Metadata{
		FilingYear:  f.Year(),
		CompanyName: f.CompanyName,
		Ticker:      f.Ticker,
	}
}

// FilingFilter represents a filter used by FindFilings.
type FilingFilter struct {
	Ticker    string
	Form      string
	StartYear int
	EndYear   int
}

// Validate returns an error if the filter contains invalid fields.
func (f FilingFilter) Validate() error {
	if f.Ticker == "" {
		return Errorf(EINVALID, "ticker required")
	}
	if f.StartYear > 0 && f.EndYear > 0 && f.StartYear > f.EndYear {
		return Errorf(EINVALID, "start year %d is after end year %d", f.StartYear, f.EndYear)
	}
	return nil
}

// FilingService looks up filings.
type FilingService interface {
	// FindFilings returns filings matching the filter, newest first.
	FindFilings(ctx context.Context, filter FilingFilter) ([]*Filing, error)
}

// Fetcher retrieves documents from URLs.
type Fetcher interface {
	// Fetch returns the body of the document at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)
}

// RateLimiter throttles requests per host.
type RateLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
