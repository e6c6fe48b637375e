package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/extract"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	progress := func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d filings\n", event.Total)
		case extract.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s %d: %s via %s -> %s\n",
				event.Completed, event.Total, event.Ticker, event.Filing.Year(),
				extract.FormatBytes(event.Section.Size()), event.Section.Strategy, event.Saved.ContentPath)
		case extract.ProgressFailed:
			if event.Filing == nil {
				fmt.Fprintf(deps.Stderr, "  fail %s: %s\n", event.Ticker, tenk.ErrorMessage(event.Error))
				return
			}
			fmt.Fprintf(deps.Stderr, "  [%d/%d] fail %s %d (%s): %s\n",
				event.Completed, event.Total, event.Ticker, event.Filing.Year(),
				extract.TruncateURL(event.Filing.DocumentURL, 60), tenk.ErrorMessage(event.Error))
			if event.DebugError != nil {
				fmt.Fprintf(deps.Stderr, "    debug: %v\n", event.DebugError)
			}
		case extract.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  skip %s %s: already processed\n", event.Ticker, event.Filing.AccessionNumber)
		}
	}

	result, err := deps.Batch.Run(deps.Ctx, extract.Request{
		Tickers:    c.Tickers,
		Form:       c.Form,
		StartYear:  c.StartYear,
		EndYear:    c.EndYear,
		Accession:  c.Accession,
		Definition: deps.Definition,
	}, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d of %d filings (%s)\n", result.Saved, result.Filings, extract.FormatBytes(result.Bytes))

	if result.Saved == 0 {
		if result.Failed > 0 {
			return fmt.Errorf("all %d filings failed", result.Failed)
		}
		if result.Skipped == 0 {
			return tenk.Errorf(tenk.ENOTFOUND, "no %s filings found for %s", c.Form, strings.Join(c.Tickers, ", "))
		}
	}
	return nil
}
