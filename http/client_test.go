package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tenk"
	tenkhttp "github.com/fwojciec/tenk/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetries keeps retry tests quick.
var fastRetries = []time.Duration{time.Millisecond, time.Millisecond}

func newClient(opts ...tenkhttp.Option) *tenkhttp.Client {
	opts = append([]tenkhttp.Option{
		tenkhttp.WithLimiter(tenkhttp.NewHostLimiter(1000)),
		tenkhttp.WithRetryDelays(fastRetries),
	}, opts...)
	return tenkhttp.NewClient(opts...)
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		ua := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua <- r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		body, err := newClient(tenkhttp.WithUserAgent("Example Research research@example.com")).Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, "Example Research research@example.com", <-ua)
	})

	t.Run("waits on the limiter for the request host", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		var hosts []string
		limiter := &hostRecorder{hosts: &hosts}

		_, err := newClient(tenkhttp.WithLimiter(limiter)).Get(context.Background(), server.URL+"/doc.htm")

		require.NoError(t, err)
		require.Len(t, hosts, 1)
		assert.Equal(t, server.Listener.Addr().String(), hosts[0])
	})

	t.Run("maps not found without retrying", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newClient().Get(context.Background(), server.URL)

		assert.Equal(t, tenk.ENOTFOUND, tenk.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("maps forbidden to rate limited", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newClient().Get(context.Background(), server.URL)

		assert.Equal(t, tenk.ERATELIMIT, tenk.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load(), "rate limited requests are retried")
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("recovered"))
		}))
		defer server.Close()

		var retries int
		client := newClient(tenkhttp.WithRetryLogger(func(string, ...any) { retries++ }))

		body, err := client.Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "recovered", string(body))
		assert.Equal(t, 2, retries)
	})

	t.Run("returns the last error once retries are exhausted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newClient().Get(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 500")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		client := newClient(tenkhttp.WithTimeout(10*time.Millisecond), tenkhttp.WithRetryDelays(nil))

		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newClient().Get(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("rejects an invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := newClient().Get(context.Background(), "http://[::1")

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(err))
	})
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>Annual Report</body></html>"))
	}))
	defer server.Close()

	html, err := tenkhttp.NewFetcher(newClient()).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><body>Annual Report</body></html>", html)
}

// hostRecorder records the hosts it is asked to wait for.
type hostRecorder struct {
	hosts *[]string
}

func (r *hostRecorder) Wait(_ context.Context, host string) error {
	*r.hosts = append(*r.hosts, host)
	return nil
}
