package sources

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/relevance"
	"github.com/poiesic/feedrank/search"
	"github.com/poiesic/feedrank/storage"
)

// DefaultArticleTimeout bounds a single article fetch.
const DefaultArticleTimeout = 10 * time.Second

// Source is a configured content source.
type Source struct {
	cfg            Config
	feeds          FeedFetcher
	articles       ArticleFetcher
	tiers          *storage.Tiers
	scorer         *relevance.Scorer
	index          *search.Index
	articleTimeout time.Duration
	articlePool    *ants.Pool
	logger         *slog.Logger

	fetches    atomic.Int64 // Generation of the latest fresh fetch
	indexedGen atomic.Int64 // Generation the index was built from
	builds     atomic.Int64
	rebuildMu  sync.Mutex
}

// Option configures a Source.
type Option func(*Source) error

// WithArticleFetcher sets the fetcher used for full-article retrieval.
// Without one, sources fall back to feed content.
func WithArticleFetcher(f ArticleFetcher) Option {
	return func(s *Source) error {
		s.articles = f
		return nil
	}
}

// WithArticleTimeout sets the per-article fetch timeout.
// Default is 10 seconds.
func WithArticleTimeout(d time.Duration) Option {
	return func(s *Source) error {
		if d <= 0 {
			return fmt.Errorf("%w: article timeout %v", ErrInvalidConfig, d)
		}
		s.articleTimeout = d
		return nil
	}
}

// WithPoolSize sets how many articles are fetched concurrently.
// Default is 4.
func WithPoolSize(size int) Option {
	return func(s *Source) error {
		if size < 1 {
			size = 1
		}
		if s.articlePool != nil {
			s.articlePool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.articlePool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a source from cfg.
func New(cfg Config, feeds FeedFetcher, tiers *storage.Tiers, opts ...Option) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if feeds == nil {
		return nil, ErrFeedFetcherRequired
	}
	if tiers == nil || tiers.Feeds == nil || tiers.Articles == nil {
		return nil, ErrTiersRequired
	}

	index, err := search.NewIndex(search.WithBoost(cfg.boost()))
	if err != nil {
		return nil, err
	}

	s := &Source{
		cfg:            cfg,
		feeds:          feeds,
		tiers:          tiers,
		scorer:         relevance.NewScorer(cfg.profile()),
		index:          index,
		articleTimeout: DefaultArticleTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}
	if s.articlePool == nil {
		pool, err := ants.NewPool(4)
		if err != nil {
			return nil, err
		}
		s.articlePool = pool
	}
	s.logger = s.logger.With("component", "source", "source", cfg.ID)
	return s, nil
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return s.cfg.ID
}

// Config returns the source configuration.
func (s *Source) Config() Config {
	return s.cfg
}

// Release frees the article worker pool.
func (s *Source) Release() {
	if s.articlePool != nil {
		s.articlePool.Release()
	}
}

// FetchDocuments returns the source's documents, from the feed cache when
// possible. A fresh fetch advances the fetch generation, which makes the
// search index rebuild on the next query.
func (s *Source) FetchDocuments(ctx context.Context) ([]core.Document, error) {
	docs, _, err := s.documents(ctx)
	return docs, err
}

// documents returns the documents with the fetch generation they belong to.
// The generation advances only after the cache holds the fresh documents.
func (s *Source) documents(ctx context.Context) ([]core.Document, int64, error) {
	if docs, ok := s.tiers.Feeds.Get(ctx, s.cfg.ID); ok {
		return docs, s.fetches.Load(), nil
	}

	s.logger.Debug("fetching feed", "url", s.cfg.FeedURL)
	items, err := s.feeds.FetchFeed(ctx, s.cfg.FeedURL)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching feed for %s: %w", s.cfg.ID, err)
	}

	docs := s.buildDocuments(ctx, items)
	if err := s.tiers.Feeds.Set(ctx, s.cfg.ID, docs, s.feedTTL()); err != nil {
		s.logger.Warn("failed to cache feed", "err", err)
	}
	return docs, s.fetches.Add(1), nil
}

// Search runs query against the source's documents. Each result carries the
// combined lexical and static score as its RelevanceScore, highest first.
func (s *Source) Search(ctx context.Context, query string) ([]core.Document, error) {
	docs, gen, err := s.documents(ctx)
	if err != nil {
		return nil, err
	}
	s.ensureIndex(docs, gen)

	results := s.index.Search(query)
	out := make([]core.Document, len(results))
	for i, r := range results {
		d := r.Document
		d.RelevanceScore = search.CombineScores(r.Score, d.RelevanceScore, search.DefaultSearchWeight)
		out[i] = d
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out, nil
}

// Vocabulary returns the indexed surface words of the source's documents.
func (s *Source) Vocabulary(ctx context.Context) ([]string, error) {
	docs, gen, err := s.documents(ctx)
	if err != nil {
		return nil, err
	}
	s.ensureIndex(docs, gen)
	return s.index.Vocabulary(), nil
}

// ensureIndex rebuilds the index from docs of fetch generation gen when the
// index predates that fetch or was built from a different collection of the
// same generation. Documents older than the index never replace it.
func (s *Source) ensureIndex(docs []core.Document, gen int64) {
	hash := core.ContentHash(docs)
	if !s.needsRebuild(hash, gen) {
		return
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	if !s.needsRebuild(hash, gen) {
		return
	}
	s.logger.Debug("rebuilding search index", "documents", len(docs), "generation", gen)
	s.index.AddDocuments(docs)
	s.indexedGen.Store(gen)
	s.builds.Add(1)
}

func (s *Source) needsRebuild(hash string, gen int64) bool {
	indexed := s.indexedGen.Load()
	if gen != indexed {
		return gen > indexed
	}
	return s.index.Hash() != hash
}

func (s *Source) feedTTL() time.Duration {
	if s.cfg.FeedTTL > 0 {
		return s.cfg.FeedTTL
	}
	return s.tiers.Feeds.TTL()
}

func (s *Source) articleTTL() time.Duration {
	if s.cfg.ArticleTTL > 0 {
		return s.cfg.ArticleTTL
	}
	return s.tiers.Articles.TTL()
}
