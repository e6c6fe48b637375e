package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/extract"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Definition is the section to extract, with any overrides applied.
	Definition *tenk.SectionDefinition

	Batch       *extract.Batch
	Extractor   tenk.SectionExtractor
	Parse       func(markup string) *tenk.Document
	Store       tenk.SectionStore
	Extractions tenk.ExtractionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output         string        `short:"o" default:"./output" env:"TENK_OUTPUT" help:"Directory for extracted sections"`
	DB             string        `name:"db" env:"TENK_DB" help:"Ledger database path (default: <output>/tenk.db)"`
	UserAgent      string        `default:"tenk/1.0 (admin@example.com)" env:"TENK_USER_AGENT" help:"User-Agent sent to EDGAR; it must name you and an email address"`
	RPS            float64       `name:"rps" default:"8" help:"Requests per second to each EDGAR host"`
	Concurrency    int           `short:"c" default:"2" help:"Filings processed at once"`
	Timeout        time.Duration `short:"t" default:"30s" help:"Timeout per request"`
	MinSectionSize int           `default:"-1" env:"TENK_MIN_SECTION_SIZE" help:"Minimum section size in bytes (default: the definition's, 1000 for Item 8)"`
	Definition     string        `type:"path" help:"YAML file overriding the Item 8 definition"`
	Verbose        bool          `short:"v" help:"Log every request and strategy"`
	Debug          bool          `help:"Save raw filings, annotated copies and failure reports"`
	Markdown       bool          `help:"Also write a Markdown rendition of each section"`

	Extract ExtractCmd `cmd:"" help:"Extract the section from a company's annual reports on EDGAR"`
	File    FileCmd    `cmd:"" help:"Extract the section from a local HTML filing"`
	History HistoryCmd `cmd:"" help:"List recorded extractions"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Tickers   []string `arg:"" help:"Ticker symbols"`
	StartYear int      `help:"First filing year"`
	EndYear   int      `help:"Last filing year"`
	Form      string   `default:"10-K" help:"Form type"`
	Accession string   `help:"Process only the filing with this accession number"`
}

// FileCmd is the "file" subcommand.
type FileCmd struct {
	Path    string `arg:"" type:"existingfile" help:"HTML filing"`
	Ticker  string `required:"" help:"Ticker symbol stamped on the section"`
	Year    int    `required:"" help:"Filing year stamped on the section"`
	Company string `help:"Company name stamped on the section"`
	Save    bool   `help:"Write the section to the output directory"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Ticker string `help:"Only show this ticker"`
	Year   int    `help:"Only show this filing year"`
	Limit  int    `default:"20" help:"Maximum number of entries"`
}
