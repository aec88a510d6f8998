package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ArticleFetcher downloads article pages.
type ArticleFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewArticleFetcher creates an article fetcher.
func NewArticleFetcher(opts ...Option) (*ArticleFetcher, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &ArticleFetcher{
		client:    o.client,
		userAgent: o.userAgent,
		maxBytes:  o.maxBytes,
	}, nil
}

// FetchArticle returns the HTML of the page at url.
func (f *ArticleFetcher) FetchArticle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}
