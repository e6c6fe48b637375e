package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func succeeded(ticker string, year int) *tenk.Extraction {
	return &tenk.Extraction{
		Ticker:          ticker,
		CompanyName:     ticker + " Inc.",
		FilingYear:      year,
		AccessionNumber: fmt.Sprintf("0000320193-%02d-000106", year%100),
		SourceURL:       "https://www.sec.gov/Archives/edgar/data/320193/doc.htm",
		Section:         "Item 8",
		Strategy:        "heading",
		Size:            52_480,
		ContentHash:     "9f86d081884c7d65",
	}
}

func TestExtractionService_CreateExtraction(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExtractionService(setupTestDB(t))
		e := succeeded("AAPL", 2023)

		err := svc.CreateExtraction(context.Background(), e)

		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("records failures with their code and message", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExtractionService(setupTestDB(t))
		ctx := context.Background()
		e := &tenk.Extraction{
			Ticker:     "MSFT",
			FilingYear: 2022,
			Section:    "Item 8",
			Code:       tenk.ETOOSMALL,
			Message:    "Item 8 not extracted: heading: 420 bytes, minimum 1000",
		}
		require.NoError(t, svc.CreateExtraction(ctx, e))

		found, err := svc.FindExtractions(ctx, tenk.ExtractionFilter{})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.False(t, found[0].Succeeded())
		assert.Equal(t, tenk.ETOOSMALL, found[0].Code)
		assert.Equal(t, e.Message, found[0].Message)
	})

	t.Run("returns error for invalid extraction", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExtractionService(setupTestDB(t))

		err := svc.CreateExtraction(context.Background(), &tenk.Extraction{})

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})
}

func TestExtractionService_FindExtractions(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.ExtractionService {
		t.Helper()
		svc := sqlite.NewExtractionService(setupTestDB(t))
		base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
		for i, e := range []*tenk.Extraction{
			succeeded("AAPL", 2021),
			succeeded("AAPL", 2022),
			succeeded("MSFT", 2022),
			succeeded("AAPL", 2023),
		} {
			e.CreatedAt = base.Add(time.Duration(i) * time.Second)
			require.NoError(t, svc.CreateExtraction(context.Background(), e))
		}
		return svc
	}

	t.Run("returns all extractions newest first", func(t *testing.T) {
		t.Parallel()

		found, err := seed(t).FindExtractions(context.Background(), tenk.ExtractionFilter{})

		require.NoError(t, err)
		require.Len(t, found, 4)
		assert.Equal(t, 2023, found[0].FilingYear)
		assert.Equal(t, "MSFT", found[1].Ticker)
		assert.Equal(t, 2021, found[3].FilingYear)
		assert.Equal(t, time.Date(2024, time.March, 1, 12, 0, 3, 0, time.UTC), found[0].CreatedAt)
	})

	t.Run("filters by ticker regardless of case", func(t *testing.T) {
		t.Parallel()

		ticker := "aapl"
		found, err := seed(t).FindExtractions(context.Background(), tenk.ExtractionFilter{Ticker: &ticker})

		require.NoError(t, err)
		require.Len(t, found, 3)
		for _, e := range found {
			assert.Equal(t, "AAPL", e.Ticker)
		}
	})

	t.Run("filters by filing year", func(t *testing.T) {
		t.Parallel()

		year := 2022
		found, err := seed(t).FindExtractions(context.Background(), tenk.ExtractionFilter{FilingYear: &year})

		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		ctx := context.Background()

		page, err := svc.FindExtractions(ctx, tenk.ExtractionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "MSFT", page[0].Ticker)

		rest, err := svc.FindExtractions(ctx, tenk.ExtractionFilter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, 2021, rest[0].FilingYear)
	})

	t.Run("returns an empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		ticker := "NVDA"
		found, err := seed(t).FindExtractions(context.Background(), tenk.ExtractionFilter{Ticker: &ticker})

		require.NoError(t, err)
		assert.Empty(t, found)
		assert.NotNil(t, found)
	})
}
