package sources

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/relevance"
)

// buildDocuments converts feed items into documents, preserving feed order.
// With full-article fetching enabled the articles are fetched concurrently.
// Items that do not yield a valid document are dropped.
func (s *Source) buildDocuments(ctx context.Context, items []core.FeedItem) []core.Document {
	docs := make([]core.Document, len(items))
	if !s.cfg.FetchFullArticle || s.articles == nil {
		for i := range items {
			docs[i] = s.makeDocument(items[i], feedContent(items[i]))
		}
		return s.dropInvalid(docs)
	}

	var wg sync.WaitGroup
	for i := range items {
		item := items[i]
		pos := i
		wg.Add(1)
		err := s.articlePool.Submit(func() {
			defer wg.Done()
			docs[pos] = s.makeDocument(item, s.articleContent(ctx, item))
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("failed to schedule article fetch", "url", item.Link, "err", err)
			docs[pos] = s.makeDocument(item, feedContent(item))
		}
	}
	wg.Wait()
	return s.dropInvalid(docs)
}

func (s *Source) dropInvalid(docs []core.Document) []core.Document {
	return slices.DeleteFunc(docs, func(d core.Document) bool {
		if err := core.ValidateDocument(&d); err != nil {
			s.logger.Warn("dropping feed item", "title", d.Title, "url", d.URL, "err", err)
			return true
		}
		return false
	})
}

// makeDocument scores content and assembles the document for item.
func (s *Source) makeDocument(item core.FeedItem, content string) core.Document {
	text := strings.ToLower(item.Title + " " + content)
	hasCode := relevance.HasCode(content)
	return core.Document{
		ID:             core.DocumentID(s.cfg.ID, item),
		SourceID:       s.cfg.ID,
		Title:          item.Title,
		URL:            item.Link,
		PublishDate:    item.PublishDate,
		Excerpt:        truncateRunes(item.ContentSnippet, ExcerptLength),
		Content:        content,
		Topics:         relevance.DetectTopics(text, s.cfg.TopicKeywords),
		RelevanceScore: s.scorer.Score(text, hasCode),
		HasCode:        hasCode,
	}
}

// articleContent returns the extracted article body for item, falling back
// to the feed content when the article cannot be fetched in time.
func (s *Source) articleContent(ctx context.Context, item core.FeedItem) string {
	fallback := feedContent(item)
	if item.Link == "" {
		return fallback
	}
	if cached, ok := s.tiers.Articles.Get(ctx, item.Link); ok {
		return cached
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.articleTimeout)
	defer cancel()
	html, err := s.articles.FetchArticle(fetchCtx, item.Link)
	if err != nil {
		s.logger.Debug("article fetch failed, using feed content", "url", item.Link, "err", err)
		return fallback
	}

	content := html
	if s.cfg.ExtractContent != nil {
		content = s.cfg.ExtractContent(html)
	}
	if strings.TrimSpace(content) == "" {
		return fallback
	}
	if err := s.tiers.Articles.Set(ctx, item.Link, content, s.articleTTL()); err != nil {
		s.logger.Warn("failed to cache article", "url", item.Link, "err", err)
	}
	return content
}

// feedContent is the item body carried by the feed itself.
func feedContent(item core.FeedItem) string {
	if item.Content != "" {
		return item.Content
	}
	return item.ContentSnippet
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
