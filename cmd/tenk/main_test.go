package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tenk"
	main "github.com/fwojciec/tenk/cmd/tenk"
	"github.com/fwojciec/tenk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

// edgar returns a Main whose EDGAR services serve the fixture for AAPL.
func edgar(t *testing.T, fixture string) *main.Main {
	t.Helper()
	markup := readFixture(t, fixture)

	m := main.NewMain()
	m.FilingService = &mock.FilingService{
		FindFilingsFn: func(_ context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error) {
			if filter.Ticker != "AAPL" {
				return nil, tenk.Errorf(tenk.ENOTFOUND, "no CIK for ticker %s", filter.Ticker)
			}
			return []*tenk.Filing{{
				Ticker:          "AAPL",
				CompanyName:     "Apple Inc.",
				CIK:             "0000320193",
				Form:            "10-K",
				AccessionNumber: "0000320193-23-000106",
				FilingDate:      time.Date(2023, time.November, 3, 0, 0, 0, 0, time.UTC),
				PrimaryDocument: "aapl-20230930.htm",
				DocumentURL:     "https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm",
			}}, nil
		},
	}
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return markup, nil
		},
	}
	return m
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"extract", "file", "history"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "--min-section-size")
	assert.Contains(t, helpOutput, "TENK_MIN_SECTION_SIZE")
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows help", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
	})

	t.Run("returns error without a command", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(), []string{}, &stdout, &stderr)

		assert.Error(t, err)
	})

	t.Run("extracts, saves and records a filing", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := edgar(t, "aapl-20230930.htm").Run(context.Background(),
			[]string{"extract", "AAPL", "--output", out, "--markdown"}, &stdout, &stderr)

		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Found 1 filings")
		assert.Contains(t, stdout.String(), "Saved 1 of 1 filings")

		dir := filepath.Join(out, "AAPL", "2023")
		content, err := os.ReadFile(filepath.Join(dir, "AAPL_2023_Item8.html"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "Total assets")
		assert.NotContains(t, string(content), "None.")
		assert.FileExists(t, filepath.Join(dir, "AAPL_2023_Item8_meta.json"))
		assert.FileExists(t, filepath.Join(dir, "AAPL_2023_Item8.md"))
		assert.FileExists(t, filepath.Join(out, "tenk.db"))

		stdout.Reset()
		err = main.NewMain().Run(context.Background(), []string{"history", "--output", out}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "0000320193-23-000106")
		assert.Contains(t, stdout.String(), "heading")
	})

	t.Run("fails when every filing failed", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := edgar(t, "cover-only.htm").Run(context.Background(),
			[]string{"extract", "AAPL", "--output", out, "--debug"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Item 8 not extracted")
		assert.FileExists(t, filepath.Join(out, "AAPL", "2023", "debug", "extraction_failure.txt"))
	})

	t.Run("succeeds when some tickers fail", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := edgar(t, "aapl-20230930.htm").Run(context.Background(),
			[]string{"extract", "AAPL", "ZZZZ", "--output", out}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "fail ZZZZ")
	})

	t.Run("applies the minimum section size", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		var stdout, stderr bytes.Buffer

		err := edgar(t, "aapl-20230930.htm").Run(context.Background(),
			[]string{"extract", "AAPL", "--output", out, "--min-section-size", "100000"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "minimum 100000")
	})

	t.Run("loads a definition file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "def.yaml")
		require.NoError(t, os.WriteFile(path, []byte("min_size: 100000\n"), 0o644))
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(),
			[]string{"file", filepath.Join("testdata", "aapl-20230930.htm"), "--ticker", "AAPL", "--year", "2023", "--definition", path},
			&stdout, &stderr)

		assert.Equal(t, tenk.ETOOSMALL, tenk.ErrorCode(err))
	})

	t.Run("rejects an invalid definition file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "def.yaml")
		require.NoError(t, os.WriteFile(path, []byte("end_rules: []\n"), 0o644))
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(context.Background(),
			[]string{"file", filepath.Join("testdata", "aapl-20230930.htm"), "--ticker", "AAPL", "--year", "2023", "--definition", path},
			&stdout, &stderr)

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})
}
