package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/bloom"
	"github.com/fwojciec/tenk/extract"
	"github.com/fwojciec/tenk/fs"
	"github.com/fwojciec/tenk/htmltomarkdown"
	tenkhttp "github.com/fwojciec/tenk/http"
	tenkslog "github.com/fwojciec/tenk/slog"
	"github.com/fwojciec/tenk/sqlite"
	"github.com/fwojciec/tenk/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the extraction ledger.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil, EDGAR implementations are
	// used.
	FilingService tenk.FilingService
	Fetcher       tenk.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// seenCapacity sizes the accession filter for a large batch.
const seenCapacity = 10_000

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tenk"),
		kong.Description("Extract Item 8 financial statements from annual reports"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tenk --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	def := tenk.Item8()
	if cli.Definition != "" {
		if def, err = yaml.LoadDefinition(cli.Definition); err != nil {
			return err
		}
	}
	if cli.MinSectionSize >= 0 {
		def.MinSize = cli.MinSectionSize
	}
	deps.Definition = def

	store := fs.NewFileStore(cli.Output)
	if cli.Markdown {
		store.Converter = htmltomarkdown.NewConverter()
	}
	deps.Store = tenkslog.NewLoggingSectionStore(store, logger)
	deps.Extractor = tenkslog.NewLoggingExtractor(extract.Default(), logger)
	deps.Parse = extract.Parse

	if cmd == "file" {
		return kongCtx.Run(deps)
	}

	dbPath := cli.DB
	if dbPath == "" {
		if err := os.MkdirAll(cli.Output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		dbPath = filepath.Join(cli.Output, "tenk.db")
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TENK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()
	deps.Extractions = sqlite.NewExtractionService(m.DB)

	if cmd == "extract" {
		client := tenkhttp.NewClient(
			tenkhttp.WithTimeout(cli.Timeout),
			tenkhttp.WithUserAgent(cli.UserAgent),
			tenkhttp.WithLimiter(tenkhttp.NewHostLimiter(cli.RPS)),
			tenkhttp.WithRetryLogger(func(format string, args ...any) {
				logger.Warn(fmt.Sprintf(format, args...))
			}),
		)

		filings := m.FilingService
		if filings == nil {
			filings = tenkhttp.NewFilingService(client)
		}
		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher = tenkhttp.NewFetcher(client)
		}

		deps.Batch = &extract.Batch{
			Filings:     tenkslog.NewLoggingFilingService(filings, logger),
			Fetcher:     tenkslog.NewLoggingFetcher(fetcher, logger),
			Extractor:   deps.Extractor,
			Store:       deps.Store,
			Extractions: deps.Extractions,
			Seen:        bloom.NewFilter(seenCapacity, 0.001),
			Parse:       deps.Parse,
			Concurrency: cli.Concurrency,
		}
		if cli.Debug {
			deps.Batch.Debug = fs.NewDebugWriter(cli.Output)
		}
	}

	return kongCtx.Run(deps)
}
