package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/tenk"
)

// EDGAR endpoints.
const (
	DefaultTickersURL     = "https://www.sec.gov/files/company_tickers.json"
	DefaultSubmissionsURL = "https://data.sec.gov/submissions"
	DefaultArchiveURL     = "https://www.sec.gov/Archives/edgar/data"
)

// DefaultForm is the annual report form.
const DefaultForm = "10-K"

// Ensure FilingService implements tenk.FilingService at compile time.
var _ tenk.FilingService = (*FilingService)(nil)

// FilingService finds filings through the EDGAR ticker map and submissions
// index. The ticker map is downloaded once and cached.
type FilingService struct {
	client *Client

	TickersURL     string
	SubmissionsURL string
	ArchiveURL     string

	mu      sync.Mutex
	tickers map[string]company
}

type company struct {
	cik  string
	name string
}

// NewFilingService creates a FilingService querying EDGAR through client.
func NewFilingService(client *Client) *FilingService {
	return &FilingService{
		client:         client,
		TickersURL:     DefaultTickersURL,
		SubmissionsURL: DefaultSubmissionsURL,
		ArchiveURL:     DefaultArchiveURL,
	}
}

// tickerEntry is an entry of company_tickers.json.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// submissions is the part of the submissions index used here. Recent filings
// are stored column-wise.
type submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// FindFilings returns the filings of the ticker's company matching the form
// and filing year range, newest first.
func (s *FilingService) FindFilings(ctx context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	form := filter.Form
	if form == "" {
		form = DefaultForm
	}
	ticker := strings.ToUpper(filter.Ticker)

	co, err := s.lookup(ctx, ticker)
	if err != nil {
		return nil, err
	}

	body, err := s.client.Get(ctx, fmt.Sprintf("%s/CIK%s.json", s.SubmissionsURL, co.cik))
	if err != nil {
		return nil, fmt.Errorf("submissions for %s: %w", ticker, err)
	}
	var sub submissions
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decode submissions for %s: %w", ticker, err)
	}

	name := sub.Name
	if name == "" {
		name = co.name
	}

	recent := sub.Filings.Recent
	n := min(len(recent.AccessionNumber), len(recent.FilingDate), len(recent.Form), len(recent.PrimaryDocument))
	filings := make([]*tenk.Filing, 0)
	for i := 0; i < n; i++ {
		if recent.Form[i] != form {
			continue
		}
		date, err := time.Parse(time.DateOnly, recent.FilingDate[i])
		if err != nil {
			return nil, fmt.Errorf("filing date %q of %s: %w", recent.FilingDate[i], recent.AccessionNumber[i], err)
		}
		if filter.StartYear > 0 && date.Year() < filter.StartYear {
			continue
		}
		if filter.EndYear > 0 && date.Year() > filter.EndYear {
			continue
		}

		f := &tenk.Filing{
			Ticker:          ticker,
			CompanyName:     name,
			CIK:             co.cik,
			Form:            recent.Form[i],
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      date,
			PrimaryDocument: recent.PrimaryDocument[i],
		}
		f.DocumentURL = s.ArchiveURL + "/" + f.PrimaryDocumentPath()
		filings = append(filings, f)
	}

	sort.SliceStable(filings, func(i, j int) bool {
		return filings[i].FilingDate.After(filings[j].FilingDate)
	})
	return filings, nil
}

// lookup resolves ticker to its zero-padded CIK.
func (s *FilingService) lookup(ctx context.Context, ticker string) (company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tickers == nil {
		body, err := s.client.Get(ctx, s.TickersURL)
		if err != nil {
			return company{}, fmt.Errorf("ticker map: %w", err)
		}
		var entries map[string]tickerEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return company{}, fmt.Errorf("decode ticker map: %w", err)
		}
		tickers := make(map[string]company, len(entries))
		for _, e := range entries {
			tickers[strings.ToUpper(e.Ticker)] = company{cik: fmt.Sprintf("%010d", e.CIK), name: e.Title}
		}
		s.tickers = tickers
	}

	co, ok := s.tickers[ticker]
	if !ok {
		return company{}, tenk.Errorf(tenk.ENOTFOUND, "no CIK for ticker %s", ticker)
	}
	return co, nil
}
