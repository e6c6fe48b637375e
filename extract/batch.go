package extract

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/tenk"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of filings processed at once.
const DefaultConcurrency = 2

// Seen remembers keys. TestAndAdd reports whether key was seen before and
// records it.
type Seen interface {
	TestAndAdd(key string) bool
}

// Batch extracts a section from every filing found for a set of tickers.
// Filings are independent: a failure is recorded and the batch moves on.
type Batch struct {
	Filings     tenk.FilingService
	Fetcher     tenk.Fetcher
	Extractor   tenk.SectionExtractor
	Store       tenk.SectionStore
	Extractions tenk.ExtractionService
	Debug       tenk.DebugStore
	Seen        Seen

	// Parse turns markup into a document. Without it documents carry no
	// tree and only text strategies apply.
	Parse func(markup string) *tenk.Document

	Concurrency int
}

// Request selects the filings of a batch.
type Request struct {
	Tickers   []string
	Form      string
	StartYear int
	EndYear   int

	// Accession restricts the batch to a single filing.
	Accession string

	Definition *tenk.SectionDefinition
}

// Result holds the outcome of a batch.
type Result struct {
	Filings int
	Saved   int
	Failed  int
	Skipped int
	Bytes   int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Ticker    string
	Filing    *tenk.Filing
	Section   *tenk.ExtractedSection
	Saved     *tenk.SavedSection
	Error     error

	// DebugError is set on a failed filing whose failure report could not
	// be written.
	DebugError error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// filingResult holds the outcome of processing a single filing.
type filingResult struct {
	position int
	filing   *tenk.Filing
	section  *tenk.ExtractedSection
	saved    *tenk.SavedSection
	err      error
	debugErr error
}

// Run looks up the filings for every ticker and extracts the section from
// each. It returns an error only when the context is canceled; per-filing
// failures are counted in the result.
func (b *Batch) Run(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if req.Definition == nil {
		return nil, tenk.Errorf(tenk.EINVALID, "section definition required")
	}
	if err := req.Definition.Validate(); err != nil {
		return nil, err
	}

	emit := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	var result Result
	var filings []*tenk.Filing
	for _, ticker := range req.Tickers {
		found, err := b.Filings.FindFilings(ctx, tenk.FilingFilter{
			Ticker:    ticker,
			Form:      req.Form,
			StartYear: req.StartYear,
			EndYear:   req.EndYear,
		})
		if err != nil {
			result.Failed++
			emit(ProgressEvent{Type: ProgressFailed, Ticker: ticker, Error: fmt.Errorf("find filings: %w", err)})
			continue
		}
		for _, f := range found {
			if req.Accession != "" && normalizeAccession(f.AccessionNumber) != normalizeAccession(req.Accession) {
				continue
			}
			if b.Seen != nil && b.Seen.TestAndAdd(normalizeAccession(f.AccessionNumber)) {
				result.Skipped++
				emit(ProgressEvent{Type: ProgressSkipped, Ticker: ticker, Filing: f})
				continue
			}
			filings = append(filings, f)
		}
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(filings)
	result.Filings = total
	emit(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan filingResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, f := range filings {
			g.Go(func() error {
				resultCh <- b.processFiling(gctx, i, f, req.Definition)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	for r := range resultCh {
		event := ProgressEvent{
			Completed: int(completed.Add(1)),
			Total:     total,
			Ticker:    r.filing.Ticker,
			Filing:    r.filing,
		}
		if r.err != nil {
			result.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
			event.DebugError = r.debugErr
		} else {
			result.Saved++
			result.Bytes += r.section.Size()
			event.Type = ProgressCompleted
			event.Section = r.section
			event.Saved = r.saved
		}
		emit(event)
	}

	emit(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	if err := ctx.Err(); err != nil {
		return &result, err
	}
	return &result, nil
}

// processFiling fetches, extracts, saves and records a single filing.
func (b *Batch) processFiling(ctx context.Context, position int, f *tenk.Filing, base *tenk.SectionDefinition) filingResult {
	result := filingResult{position: position, filing: f}
	def := base.WithMetadata(f.Metadata())

	record := &tenk.Extraction{
		Ticker:          f.Ticker,
		CompanyName:     f.CompanyName,
		FilingYear:      f.Year(),
		AccessionNumber: f.AccessionNumber,
		SourceURL:       f.DocumentURL,
		Section:         def.Name,
	}

	section, saved, err := b.extract(ctx, f, def)
	if err != nil {
		record.Code = tenk.ErrorCode(err)
		record.Message = tenk.ErrorMessage(err)
		if b.Debug != nil {
			if derr := b.Debug.SaveFailure(ctx, f, err); derr != nil {
				result.debugErr = fmt.Errorf("save failure report: %w", derr)
			}
		}
	} else {
		record.Strategy = section.Strategy
		record.Size = section.Size()
		record.ContentHash = section.Hash()
	}

	if b.Extractions != nil {
		if rerr := b.Extractions.CreateExtraction(ctx, record); rerr != nil && err == nil {
			err = fmt.Errorf("record extraction: %w", rerr)
		}
	}

	result.section, result.saved, result.err = section, saved, err
	return result
}

func (b *Batch) extract(ctx context.Context, f *tenk.Filing, def *tenk.SectionDefinition) (*tenk.ExtractedSection, *tenk.SavedSection, error) {
	markup, err := b.Fetcher.Fetch(ctx, f.DocumentURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", f.DocumentURL, err)
	}

	if b.Debug != nil {
		if err := b.Debug.SaveFiling(ctx, f, markup, def); err != nil {
			return nil, nil, fmt.Errorf("save debug artifacts: %w", err)
		}
	}

	doc := &tenk.Document{Markup: markup}
	if b.Parse != nil {
		doc = b.Parse(markup)
	}

	section, err := b.Extractor.Extract(doc, def)
	if err != nil {
		return nil, nil, err
	}

	saved, err := b.Store.SaveSection(ctx, section)
	if err != nil {
		return section, nil, fmt.Errorf("save section: %w", err)
	}
	return section, saved, nil
}

func normalizeAccession(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "")
}
