package fs_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/fs"
	"github.com/fwojciec/tenk/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section() *tenk.ExtractedSection {
	return &tenk.ExtractedSection{
		SectionName:  "Item 8",
		SectionTitle: "Financial Statements and Supplementary Data",
		Content:      "<p>Consolidated Balance Sheets</p>",
		FilingYear:   2023,
		CompanyName:  "Apple Inc.",
		Ticker:       "aapl",
		Strategy:     "heading",
	}
}

// Story: Section Storage
// Sections are saved under TICKER/YEAR with a metadata sidecar.

func TestFileStore_SaveSection(t *testing.T) {
	t.Parallel()

	t.Run("writes the content verbatim and its metadata", func(t *testing.T) {
		t.Parallel()

		// Given a store with a fixed clock
		base := t.TempDir()
		store := fs.NewFileStore(base)
		store.Now = func() time.Time { return time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC) }

		// When I save a section
		saved, err := store.SaveSection(context.Background(), section())

		// Then the content is written as is
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "AAPL", "2023", "AAPL_2023_Item8.html"), saved.ContentPath)
		content, err := os.ReadFile(saved.ContentPath)
		require.NoError(t, err)
		assert.Equal(t, "<p>Consolidated Balance Sheets</p>", string(content))

		// And the metadata describes it
		assert.Equal(t, filepath.Join(base, "AAPL", "2023", "AAPL_2023_Item8_meta.json"), saved.MetadataPath)
		raw, err := os.ReadFile(saved.MetadataPath)
		require.NoError(t, err)
		var meta map[string]any
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "AAPL", meta["ticker"])
		assert.Equal(t, "Apple Inc.", meta["company_name"])
		assert.InDelta(t, 2023, meta["filing_year"], 0)
		assert.Equal(t, "Item 8", meta["section_name"])
		assert.Equal(t, "Financial Statements and Supplementary Data", meta["section_title"])
		assert.Equal(t, "heading", meta["strategy"])
		assert.InDelta(t, 34, meta["content_length"], 0)
		assert.NotEmpty(t, meta["content_hash"])
		assert.Equal(t, "2024-03-01T12:30:00Z", meta["extraction_timestamp"])

		// And no Markdown is written
		assert.Empty(t, saved.MarkdownPath)
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base)

		_, err := store.SaveSection(context.Background(), section())
		require.NoError(t, err)
		_, err = store.SaveSection(context.Background(), section())
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(base, "AAPL", "2023"))
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.ElementsMatch(t, []string{"AAPL_2023_Item8.html", "AAPL_2023_Item8_meta.json"}, names)
	})

	t.Run("adds a Markdown rendition with a converter", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())
		store.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) { return "Consolidated Balance Sheets", nil },
		}

		saved, err := store.SaveSection(context.Background(), section())

		require.NoError(t, err)
		require.NotEmpty(t, saved.MarkdownPath)
		md, err := os.ReadFile(saved.MarkdownPath)
		require.NoError(t, err)
		assert.Equal(t, "Consolidated Balance Sheets", string(md))
	})

	t.Run("fails when the converter fails", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())
		store.Converter = &mock.Converter{
			ConvertFn: func(string) (string, error) { return "", errors.New("boom") },
		}

		_, err := store.SaveSection(context.Background(), section())

		assert.ErrorContains(t, err, "convert section")
	})

	t.Run("requires ticker and year", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())
		s := section()
		s.FilingYear = 0

		_, err := store.SaveSection(context.Background(), s)

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})
}

func TestFileStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MSFT_2022_Item8", fs.FileStem("msft", 2022, "Item 8"))
	assert.Equal(t, "MSFT_2022_Item7A", fs.FileStem("MSFT", 2022, "Item  7A"))
}
