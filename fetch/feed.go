package fetch

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/poiesic/feedrank/core"
)

// FeedFetcher parses remote feeds.
type FeedFetcher struct {
	parser *gofeed.Parser
}

// NewFeedFetcher creates a feed fetcher.
func NewFeedFetcher(opts ...Option) (*FeedFetcher, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	parser := gofeed.NewParser()
	parser.Client = o.client
	parser.UserAgent = o.userAgent
	return &FeedFetcher{parser: parser}, nil
}

// FetchFeed downloads and parses the feed at url.
func (f *FeedFetcher) FetchFeed(ctx context.Context, url string) ([]core.FeedItem, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", url, err)
	}
	return ItemsFromFeed(feed), nil
}

// ItemsFromFeed converts parsed feed items. The item body is the full content
// when present, otherwise the description; the snippet is that body as plain
// text.
func ItemsFromFeed(feed *gofeed.Feed) []core.FeedItem {
	items := make([]core.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		body := it.Content
		if body == "" {
			body = it.Description
		}
		items = append(items, core.FeedItem{
			GUID:           it.GUID,
			Title:          it.Title,
			Link:           it.Link,
			PublishDate:    it.Published,
			ContentSnippet: StripHTML(body),
			Content:        body,
		})
	}
	return items
}
