package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/extract"
)

// Run executes the file command.
func (c *FileCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Path, err)
	}

	def := deps.Definition.WithMetadata(tenk.Metadata{
		FilingYear:  c.Year,
		CompanyName: c.Company,
		Ticker:      strings.ToUpper(c.Ticker),
	})

	section, err := deps.Extractor.Extract(deps.Parse(string(data)), def)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%s (%s)\n", tenk.ErrorMessage(err), tenk.ErrorCode(err))
		var xerr *tenk.ExtractionError
		if errors.As(err, &xerr) {
			for _, a := range xerr.Attempts {
				fmt.Fprintf(deps.Stderr, "  %-18s %-10s %s\n", a.Strategy, a.Code, a.Reason)
			}
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s. %s\n", section.SectionName, section.SectionTitle)
	fmt.Fprintf(deps.Stdout, "  strategy: %s\n", section.Strategy)
	fmt.Fprintf(deps.Stdout, "  size:     %s\n", extract.FormatBytes(section.Size()))
	fmt.Fprintf(deps.Stdout, "  hash:     %s\n", section.Hash())

	if !c.Save {
		return nil
	}
	saved, err := deps.Store.SaveSection(deps.Ctx, section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tenk.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  saved:    %s\n", saved.ContentPath)
	return nil
}
