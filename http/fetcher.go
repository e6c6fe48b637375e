package http

import (
	"context"

	"github.com/fwojciec/tenk"
)

// Ensure Fetcher implements tenk.Fetcher at compile time.
var _ tenk.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves filing documents. Filings are static HTML, so no
// rendering is needed.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a Fetcher using client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch retrieves the document at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.client.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
