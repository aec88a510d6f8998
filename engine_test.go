package feedrank

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/feedrank/ai/mock"
	"github.com/poiesic/feedrank/config"
	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/recall"
	"github.com/poiesic/feedrank/relevance"
	"github.com/poiesic/feedrank/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedStub struct {
	feeds map[string][]core.FeedItem
	fails map[string]error
	calls atomic.Int64
}

func (f *feedStub) FetchFeed(ctx context.Context, url string) ([]core.FeedItem, error) {
	f.calls.Add(1)
	if err, ok := f.fails[url]; ok {
		return nil, err
	}
	return f.feeds[url], nil
}

type noArticles struct{}

func (noArticles) FetchArticle(ctx context.Context, url string) (string, error) {
	return "", errors.New("offline")
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMonitor struct {
	mu     sync.Mutex
	events []string
}

func (m *recordingMonitor) record(e string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *recordingMonitor) Start(string) { m.record("start") }
func (m *recordingMonitor) AfterLexicalSearch([]core.Document) { m.record("lexical") }
func (m *recordingMonitor) RecallActivated(string) { m.record("recall") }
func (m *recordingMonitor) AfterRecall(string, []core.Document) { m.record("recalled") }
func (m *recordingMonitor) Finish([]core.Document) { m.record("finish") }

func testCatalog() []sources.Config {
	topics := relevance.TopicKeywords{
		"concurrency": {"async", "actor"},
		"swiftui":     {"swiftui", "view"},
	}
	signals := relevance.Signals{"async": 6, "swiftui": 6}
	mk := func(id string, auth bool) sources.Config {
		c := sources.Config{
			ID:             id,
			Name:           id,
			Baseline:       relevance.DefaultBaseline,
			CodeBonus:      relevance.DefaultCodeBonus,
			TopicKeywords:  topics,
			QualitySignals: signals,
			RequiresAuth:   auth,
		}
		if !auth {
			c.FeedURL = "https://" + id + ".test/feed"
		}
		return c
	}
	return []sources.Config{mk("alpha", false), mk("beta", false), mk("gamma", false), mk("locked", true)}
}

func testFeeds() *feedStub {
	return &feedStub{
		feeds: map[string][]core.FeedItem{
			"https://alpha.test/feed": {
				{GUID: "1", Title: "Async Await Patterns", Link: "https://alpha.test/1", Content: "```func foo() async {}```"},
				{GUID: "2", Title: "Release notes", Link: "https://alpha.test/2", ContentSnippet: "Minor changes"},
			},
			"https://beta.test/feed": {
				{GUID: "1", Title: "SwiftUI view composition", Link: "https://beta.test/1", ContentSnippet: "Compose async views"},
			},
			"https://gamma.test/feed": {
				{GUID: "1", Title: "Async sequences", Link: "https://gamma.test/1", ContentSnippet: "Streams of values"},
			},
		},
		fails: map[string]error{},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Sources = map[string]config.Source{}
	cfg.Recall.Enabled = false
	return cfg
}

// Validate rejects ids outside the built-in catalog, so test configs keep
// the source map empty and enable sources through the engine.
func newTestEngine(t *testing.T, cfg *config.Config, opts ...EngineOption) (*Engine, *feedStub, *testClock) {
	t.Helper()
	feeds := testFeeds()
	clock := &testClock{now: time.Now()}
	all := append([]EngineOption{
		WithConfig(cfg),
		WithCatalog(testCatalog()),
		WithFeedFetcher(feeds),
		WithArticleFetcher(noArticles{}),
		WithClock(clock.Now),
	}, opts...)
	e, err := NewEngine(all...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	for _, id := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, e.EnableSource(id))
	}
	return e, feeds, clock
}

func ids(docs []core.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestNewEngine_Defaults(t *testing.T) {
	e, err := NewEngine(WithFeedFetcher(testFeeds()), WithArticleFetcher(noArticles{}))
	require.NoError(t, err)
	defer e.Close()

	infos := e.Sources()
	require.Len(t, infos, 5)
	assert.Equal(t, sources.Sundell, infos[0].ID)
	assert.True(t, infos[0].Enabled)
	assert.True(t, infos[0].Configured)

	patreon := infos[4]
	assert.Equal(t, sources.Patreon, patreon.ID)
	assert.True(t, patreon.RequiresAuth)
	assert.False(t, patreon.Enabled)
	assert.False(t, patreon.Configured)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.FeedTTL = 0
	_, err := NewEngine(WithConfig(cfg))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestEnableSource(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())

	assert.ErrorIs(t, e.EnableSource("nope"), sources.ErrUnknownSource)
	assert.ErrorIs(t, e.EnableSource("locked"), sources.ErrAuthRequired)

	require.NoError(t, e.DisableSource("beta"))
	_, err := e.Search(context.Background(), SearchQuery{Query: "async", Sources: []string{"beta"}})
	assert.ErrorIs(t, err, ErrSourceDisabled)

	require.NoError(t, e.EnableSource("beta"))
	_, err = e.Search(context.Background(), SearchQuery{Query: "async", Sources: []string{"beta"}})
	assert.NoError(t, err)

	assert.ErrorIs(t, e.DisableSource("nope"), sources.ErrUnknownSource)
}

func TestSearch(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())

	resp, err := e.Search(context.Background(), SearchQuery{Query: "async"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Empty(t, resp.Failed)
	assert.ElementsMatch(t, []string{"alpha-1", "beta-1", "gamma-1"}, ids(resp.Documents))
	for i := 1; i < len(resp.Documents); i++ {
		assert.GreaterOrEqual(t, resp.Documents[i-1].RelevanceScore, resp.Documents[i].RelevanceScore)
	}
	assert.Equal(t, recall.StatusInactive, resp.Recall.Status)
}

func TestSearch_EmptyQuery(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())
	_, err := e.Search(context.Background(), SearchQuery{Query: "  "})
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestSearch_UnknownSource(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())
	_, err := e.Search(context.Background(), SearchQuery{Query: "async", Sources: []string{"nope"}})
	assert.ErrorIs(t, err, sources.ErrUnknownSource)
}

func TestSearch_NoEnabledSources(t *testing.T) {
	e, feeds, _ := newTestEngine(t, testConfig())
	for _, id := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, e.DisableSource(id))
	}
	ctx := context.Background()

	resp, err := e.Search(ctx, SearchQuery{Query: "async"})
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)
	assert.Empty(t, resp.Failed)

	patterns, err := e.Patterns(ctx, PatternQuery{Topic: "async"})
	require.NoError(t, err)
	assert.Empty(t, patterns.Documents)
	assert.Zero(t, feeds.calls.Load(), "no feed is fetched")
}

func TestSearch_RequireCode(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())

	resp, err := e.Search(context.Background(), SearchQuery{Query: "async", RequireCode: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha-1"}, ids(resp.Documents))
}

func TestSearch_PartialFailure(t *testing.T) {
	e, feeds, _ := newTestEngine(t, testConfig())
	feeds.fails["https://gamma.test/feed"] = errors.New("gamma is down")
	ctx := context.Background()

	resp, err := e.Search(ctx, SearchQuery{Query: "async"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha-1", "beta-1"}, ids(resp.Documents))
	assert.Contains(t, resp.Failed, "gamma")

	again, err := e.Search(ctx, SearchQuery{Query: "async"})
	require.NoError(t, err)
	assert.False(t, again.Cached, "partial results are not cached")
}

func TestSearch_IntentCache(t *testing.T) {
	e, feeds, clock := newTestEngine(t, testConfig())
	ctx := context.Background()

	first, err := e.Search(ctx, SearchQuery{Query: "Async", Sources: []string{"beta", "alpha"}})
	require.NoError(t, err)
	require.False(t, first.Cached)
	fetches := feeds.calls.Load()

	second, err := e.Search(ctx, SearchQuery{Query: "  async ", Sources: []string{"ALPHA", "beta", "alpha"}})
	require.NoError(t, err)
	assert.True(t, second.Cached, "normalized query and source order share a key")
	assert.Equal(t, ids(first.Documents), ids(second.Documents))
	assert.Equal(t, fetches, feeds.calls.Load())

	all, err := e.Search(ctx, SearchQuery{Query: "async", Sources: []string{AllSources}})
	require.NoError(t, err)
	assert.False(t, all.Cached, "different source set is a different intent")

	clock.Advance(16 * time.Minute)
	expired, err := e.Search(ctx, SearchQuery{Query: "async", Sources: []string{"alpha", "beta"}})
	require.NoError(t, err)
	assert.False(t, expired.Cached)
	assert.Equal(t, fetches+1, feeds.calls.Load(), "feeds are still cached, only gamma was new")
}

func TestSearch_RecallActivates(t *testing.T) {
	cfg := testConfig()
	cfg.Recall.Enabled = true
	cfg.Recall.MinRelevanceScore = 0
	monitor := &recordingMonitor{}
	e, _, _ := newTestEngine(t, cfg, WithMonitor(monitor))

	resp, err := e.Search(context.Background(), SearchQuery{Query: "zzzqqq"})
	require.NoError(t, err)
	assert.True(t, resp.Recall.Active())
	assert.NotEqual(t, recall.StatusDegraded, resp.Recall.Status)
	assert.Equal(t, []string{"start", "lexical", "recall", "recalled", "finish"}, monitor.events)
}

func TestSearch_RecallDegraded(t *testing.T) {
	cfg := testConfig()
	cfg.Recall.Enabled = true
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	provider := mock.NewMockProviderWithEmbedder(embedder)
	e, _, _ := newTestEngine(t, cfg, WithProvider(provider))
	ctx := context.Background()

	resp, err := e.Search(ctx, SearchQuery{Query: "zzzqqq"})
	require.NoError(t, err, "recall failure never fails the search")
	assert.Equal(t, recall.StatusDegraded, resp.Recall.Status)
	assert.Error(t, resp.Recall.Err)
	assert.Empty(t, resp.Documents)

	again, err := e.Search(ctx, SearchQuery{Query: "zzzqqq"})
	require.NoError(t, err)
	assert.False(t, again.Cached, "degraded results are not cached")
}

func TestPatterns(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	resp, err := e.Patterns(ctx, PatternQuery{Topic: "async", MinQuality: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Documents)

	resp, err = e.Patterns(ctx, PatternQuery{Topic: "async", MinQuality: 100})
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)

	resp, err = e.Patterns(ctx, PatternQuery{Topic: "async"})
	require.NoError(t, err)
	for _, d := range resp.Documents {
		assert.GreaterOrEqual(t, d.RelevanceScore, DefaultMinQuality)
	}
	explicit, err := e.Patterns(ctx, PatternQuery{Topic: "async", MinQuality: DefaultMinQuality})
	require.NoError(t, err)
	assert.True(t, explicit.Cached, "zero quality means the default floor")

	_, err = e.Patterns(ctx, PatternQuery{Topic: "async", MinQuality: 101})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = e.Patterns(ctx, PatternQuery{Topic: ""})
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestPatterns_DistinctFromSearch(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	_, err := e.Search(ctx, SearchQuery{Query: "async"})
	require.NoError(t, err)
	resp, err := e.Patterns(ctx, PatternQuery{Topic: "async", MinQuality: 1})
	require.NoError(t, err)
	assert.False(t, resp.Cached, "tools never share intent keys")
}

func TestSuggest(t *testing.T) {
	e, _, _ := newTestEngine(t, testConfig())

	suggestions, err := e.Suggest(context.Background(), "asyn", 3)
	require.NoError(t, err)
	assert.Contains(t, suggestions, "async")

	_, err = e.Suggest(context.Background(), "", 3)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestDocuments(t *testing.T) {
	e, feeds, _ := newTestEngine(t, testConfig())
	feeds.fails["https://beta.test/feed"] = errors.New("down")

	docs, err := e.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha-1", "alpha-2", "gamma-1"}, ids(docs))
}

func TestClose_ClosesProvider(t *testing.T) {
	provider := mock.NewMockProvider()
	e, err := NewEngine(
		WithConfig(testConfig()),
		WithCatalog(testCatalog()),
		WithFeedFetcher(testFeeds()),
		WithProvider(provider))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
}
