// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package feedrank

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/feedrank/aggregate"
	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/config"
	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/fetch"
	"github.com/poiesic/feedrank/recall"
	"github.com/poiesic/feedrank/search"
	"github.com/poiesic/feedrank/sources"
	"github.com/poiesic/feedrank/storage"
	"github.com/poiesic/feedrank/storage/badger"
)

// Tool names used in intent cache keys.
const (
	ToolSearch  = "search"
	ToolPattern = "pattern"
)

// DefaultMinQuality is the pattern lookup quality floor.
const DefaultMinQuality = 60

// AllSources selects every enabled source.
const AllSources = "all"

// Engine ranks and caches content from the configured sources. Build one
// with NewEngine and Close it when done; engines share no state.
type Engine struct {
	backend    *badger.Backend
	tiers      *storage.Tiers
	provider   ai.AIProvider
	recall     *recall.Supplement
	aggregator *aggregate.Aggregator
	catalog    []sources.Config
	sources    map[string]*sources.Source
	monitor    search.Monitor
	logger     *slog.Logger

	mu         sync.RWMutex
	enabled    map[string]bool
	configured map[string]bool
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cfg      *config.Config
	catalog  []sources.Config
	feeds    sources.FeedFetcher
	articles sources.ArticleFetcher
	provider ai.AIProvider
	monitor  search.Monitor
	logger   *slog.Logger
	now      func() time.Time
}

// WithConfig sets the configuration. Default is config.Default().
func WithConfig(cfg *config.Config) EngineOption {
	return func(o *engineOptions) {
		o.cfg = cfg
	}
}

// WithCatalog replaces the built-in source catalog.
func WithCatalog(catalog []sources.Config) EngineOption {
	return func(o *engineOptions) {
		o.catalog = catalog
	}
}

// WithFeedFetcher sets the feed fetcher. Default is an HTTP gofeed fetcher.
func WithFeedFetcher(f sources.FeedFetcher) EngineOption {
	return func(o *engineOptions) {
		o.feeds = f
	}
}

// WithArticleFetcher sets the article fetcher. Default is an HTTP fetcher.
func WithArticleFetcher(f sources.ArticleFetcher) EngineOption {
	return func(o *engineOptions) {
		o.articles = f
	}
}

// WithProvider sets the embedding provider used by semantic recall.
// Default is chosen by the embedding configuration.
func WithProvider(p ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = p
	}
}

// WithMonitor sets hooks observing each search.
func WithMonitor(m search.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = m
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock sets the time source used for cache expiry.
func WithClock(now func() time.Time) EngineOption {
	return func(o *engineOptions) {
		o.now = now
	}
}

// NewEngine creates an engine. The cache lives in memory unless the
// configuration names a cache directory.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		cfg:     config.Default(),
		catalog: sources.Catalog(),
		monitor: search.NoopMonitor{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg := options.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := options.logger.With("component", "engine")

	backend, err := badger.OpenBackend(cfg.Cache.Dir, cfg.Cache.Dir == "")
	if err != nil {
		return nil, err
	}

	e := &Engine{
		backend:    backend,
		catalog:    options.catalog,
		sources:    make(map[string]*sources.Source),
		monitor:    options.monitor,
		logger:     logger,
		enabled:    make(map[string]bool),
		configured: make(map[string]bool),
	}
	if err := e.init(cfg, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init(cfg *config.Config, options *engineOptions) error {
	tiers, err := badger.NewTiers(e.backend, cfg.TTLs(),
		badger.WithClock(options.now), badger.WithLogger(options.logger))
	if err != nil {
		return err
	}
	e.tiers = tiers

	feeds := options.feeds
	if feeds == nil {
		feeds, err = fetch.NewFeedFetcher(
			fetch.WithTimeout(cfg.Fetch.RequestTimeout),
			fetch.WithUserAgent(cfg.Fetch.UserAgent))
		if err != nil {
			return err
		}
	}
	articles := options.articles
	if articles == nil {
		articles, err = fetch.NewArticleFetcher(
			fetch.WithTimeout(cfg.Fetch.RequestTimeout),
			fetch.WithUserAgent(cfg.Fetch.UserAgent))
		if err != nil {
			return err
		}
	}

	e.provider = options.provider
	if e.provider == nil {
		e.provider, err = NewProvider(cfg.AIConfig())
		if err != nil {
			return err
		}
	}
	e.recall, err = recall.New(e.provider.Embedder(), cfg.RecallSettings(),
		recall.WithLogger(options.logger))
	if err != nil {
		return err
	}

	e.aggregator, err = aggregate.New(
		aggregate.WithPoolSize(cfg.Fetch.PoolSize),
		aggregate.WithLogger(options.logger))
	if err != nil {
		return err
	}

	for _, sc := range e.catalog {
		if override := cfg.Sources[sc.ID].FeedURL; override != "" {
			sc.FeedURL = override
		}
		e.configured[sc.ID] = !sc.RequiresAuth || cfg.Sources[sc.ID].AuthConfigured
		e.enabled[sc.ID] = cfg.IsEnabled(sc.ID) && e.configured[sc.ID]
		if sc.FeedURL == "" {
			e.logger.Debug("source has no feed url", "source", sc.ID)
			e.enabled[sc.ID] = false
			continue
		}
		src, err := sources.New(sc, feeds, tiers,
			sources.WithArticleFetcher(articles),
			sources.WithArticleTimeout(cfg.Fetch.ArticleTimeout),
			sources.WithPoolSize(cfg.Fetch.ArticleWorkers),
			sources.WithLogger(options.logger))
		if err != nil {
			return fmt.Errorf("source %s: %w", sc.ID, err)
		}
		e.sources[sc.ID] = src
	}
	return nil
}

// Close releases every resource held by the engine.
func (e *Engine) Close() error {
	for _, src := range e.sources {
		src.Release()
	}
	if e.aggregator != nil {
		e.aggregator.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Tiers returns the engine's cache tiers.
func (e *Engine) Tiers() *storage.Tiers {
	return e.tiers
}

// Documents returns every document of every enabled source. Sources that
// fail contribute nothing.
func (e *Engine) Documents(ctx context.Context) ([]core.Document, error) {
	srcs, _ := e.selectSources(nil)
	out, err := e.aggregator.FetchAll(ctx, asAggregate(srcs))
	if err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// Suggest returns up to limit indexed words close to query, for
// did-you-mean hints when a search finds nothing.
func (e *Engine) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	normalized, err := core.ValidateQuery(query)
	if err != nil {
		return nil, err
	}
	srcs, _ := e.selectSources(nil)

	var vocabulary []string
	for _, s := range srcs {
		words, err := s.Vocabulary(ctx)
		if err != nil {
			e.logger.Warn("vocabulary unavailable", "source", s.ID(), "err", err)
			continue
		}
		vocabulary = append(vocabulary, words...)
	}
	slices.Sort(vocabulary)
	vocabulary = slices.Compact(vocabulary)
	return search.Suggest(normalized, vocabulary, limit), nil
}
