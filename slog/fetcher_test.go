package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/mock"
	tenkslog "github.com/fwojciec/tenk/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := tenkslog.NewLoggingFetcher(inner, logger)
		markup, err := fetcher.Fetch(context.Background(), "https://www.sec.gov/Archives/doc.htm")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", markup)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://www.sec.gov/Archives/doc.htm")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := tenkslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://www.sec.gov/Archives/doc.htm")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFilingService_FindFilings(t *testing.T) {
	t.Parallel()

	t.Run("logs the filter and the number of filings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FilingService{
			FindFilingsFn: func(ctx context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error) {
				return []*tenk.Filing{{Ticker: "AAPL"}, {Ticker: "AAPL"}}, nil
			},
		}

		svc := tenkslog.NewLoggingFilingService(inner, logger)
		filings, err := svc.FindFilings(context.Background(), tenk.FilingFilter{Ticker: "AAPL", StartYear: 2020})

		require.NoError(t, err)
		assert.Len(t, filings, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=\"find filings\"")
		assert.Contains(t, output, "ticker=AAPL")
		assert.Contains(t, output, "start_year=2020")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs lookup errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FilingService{
			FindFilingsFn: func(ctx context.Context, filter tenk.FilingFilter) ([]*tenk.Filing, error) {
				return nil, tenk.Errorf(tenk.ENOTFOUND, "no CIK for ticker %s", filter.Ticker)
			},
		}

		svc := tenkslog.NewLoggingFilingService(inner, logger)
		_, err := svc.FindFilings(context.Background(), tenk.FilingFilter{Ticker: "ZZZZ"})

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
		assert.Contains(t, buf.String(), "count=0")
		assert.Contains(t, buf.String(), "no CIK for ticker ZZZZ")
	})
}
