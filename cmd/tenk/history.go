package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/extract"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := tenk.ExtractionFilter{Limit: c.Limit}
	if c.Ticker != "" {
		filter.Ticker = &c.Ticker
	}
	if c.Year > 0 {
		filter.FilingYear = &c.Year
	}

	extractions, err := deps.Extractions.FindExtractions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}

	if len(extractions) == 0 {
		fmt.Fprintln(deps.Stdout, "No extractions recorded. Use 'tenk extract' to run one.")
		return nil
	}

	for _, e := range extractions {
		outcome := fmt.Sprintf("%s %s", e.Strategy, extract.FormatBytes(e.Size))
		if !e.Succeeded() {
			outcome = fmt.Sprintf("%s %s", e.Code, e.Message)
		}
		fmt.Fprintf(deps.Stdout, "%s  %-6s %d  %s  %s\n",
			e.CreatedAt.UTC().Format(time.DateTime), e.Ticker, e.FilingYear, e.AccessionNumber, outcome)
	}
	return nil
}
