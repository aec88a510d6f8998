package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.IsEnabled(sources.Sundell))
	assert.True(t, cfg.IsEnabled(sources.PointFree))
	assert.False(t, cfg.IsEnabled(sources.Patreon))

	assert.Equal(t, time.Hour, cfg.Cache.FeedTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.ArticleTTL)
	assert.Equal(t, 15*time.Minute, cfg.Cache.IntentTTL)
	assert.Equal(t, 10*time.Second, cfg.Fetch.ArticleTimeout)

	settings := cfg.RecallSettings()
	assert.True(t, settings.Enabled)
	assert.Equal(t, 50, settings.MinLexicalScore)
	assert.Equal(t, 55, settings.MinRelevanceScore)
	assert.Equal(t, 20, settings.TopK)

	assert.Equal(t, ai.BackendHashing, cfg.AIConfig().Backend)
}

func TestIsConfigured(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsConfigured(sources.Sundell), "free sources need no credentials")
	assert.False(t, cfg.IsConfigured(sources.Patreon))
	assert.False(t, cfg.IsConfigured("unknown"))

	p := cfg.Sources[sources.Patreon]
	p.AuthConfigured = true
	cfg.Sources[sources.Patreon] = p
	assert.True(t, cfg.IsConfigured(sources.Patreon))
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
sources:
  vanderlee:
    enabled: false
cache:
  intent_ttl: 5m
recall:
  min_lexical_score: 70
`))
	require.NoError(t, err)

	assert.False(t, cfg.IsEnabled(sources.VanDerLee))
	assert.True(t, cfg.IsEnabled(sources.Sundell), "untouched sources keep defaults")
	assert.Equal(t, 5*time.Minute, cfg.Cache.IntentTTL)
	assert.Equal(t, time.Hour, cfg.Cache.FeedTTL)
	assert.Equal(t, 70, cfg.RecallSettings().MinLexicalScore)
	assert.Equal(t, 55, cfg.RecallSettings().MinRelevanceScore)
}

func TestParse_PartialSourceOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
sources:
  sundell:
    feed_url: https://example.test/feed
  patreon:
    auth_configured: true
`))
	require.NoError(t, err)

	assert.True(t, cfg.IsEnabled(sources.Sundell), "unset fields keep their defaults")
	assert.Equal(t, "https://example.test/feed", cfg.Sources[sources.Sundell].FeedURL)
	assert.False(t, cfg.IsEnabled(sources.Patreon))
	assert.True(t, cfg.IsConfigured(sources.Patreon))
	assert.True(t, cfg.IsEnabled(sources.VanDerLee))

	_, err = Parse([]byte("sources:\n  sundell:\n    enabled: [1]\n"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown source", yaml: "sources:\n  nope:\n    enabled: true\n"},
		{name: "zero ttl", yaml: "cache:\n  feed_ttl: 0s\n"},
		{name: "negative timeout", yaml: "fetch:\n  article_timeout: -1s\n"},
		{name: "zero pool", yaml: "fetch:\n  pool_size: 0\n"},
		{name: "recall threshold out of range", yaml: "recall:\n  min_lexical_score: 150\n"},
		{name: "unknown backend", yaml: "embedding:\n  backend: telepathy\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse([]byte("sources: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("recall:\n  enabled: false\n"), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.RecallSettings().Enabled)
	})
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.SetEnabled(sources.Patreon, true)
	cfg.Cache.IntentTTL = 3 * time.Minute
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.IsEnabled(sources.Patreon))
	assert.Equal(t, 3*time.Minute, loaded.Cache.IntentTTL)
}

func TestAIConfig_TokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "secret")
	cfg := Default()
	assert.Equal(t, "secret", cfg.AIConfig().APIToken)

	cfg.Embedding.APIToken = "from-file"
	assert.Equal(t, "from-file", cfg.AIConfig().APIToken)
}
