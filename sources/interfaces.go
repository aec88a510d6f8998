package sources

import (
	"context"

	"github.com/poiesic/feedrank/core"
)

// FeedFetcher retrieves and parses a feed.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, url string) ([]core.FeedItem, error)
}

// ArticleFetcher retrieves the raw HTML of an article page.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (string, error)
}

// ExtractFunc reduces an article page to its body text.
type ExtractFunc func(html string) string
