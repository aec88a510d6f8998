// Package config loads the feedrank configuration file.
//
// The file lives at $XDG_CONFIG_HOME/feedrank/config.yaml. Missing keys take
// the values of the embedded default configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/recall"
	"github.com/poiesic/feedrank/sources"
	"github.com/poiesic/feedrank/storage"
	"gopkg.in/yaml.v3"
)

// TokenEnv names the environment variable consulted for the embedding
// API token when the file leaves it empty.
const TokenEnv = "FEEDRANK_API_TOKEN"

//go:embed default_config.yaml
var defaultConfig []byte

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source holds the per-source settings.
type Source struct {
	Enabled        bool   `yaml:"enabled"`
	AuthConfigured bool   `yaml:"auth_configured,omitempty"`
	FeedURL        string `yaml:"feed_url,omitempty"` // Overrides the catalog feed URL
}

// Cache holds the cache tier settings.
type Cache struct {
	Dir        string        `yaml:"dir"`
	FeedTTL    time.Duration `yaml:"feed_ttl"`
	ArticleTTL time.Duration `yaml:"article_ttl"`
	IntentTTL  time.Duration `yaml:"intent_ttl"`
}

// Fetch holds network settings.
type Fetch struct {
	ArticleTimeout time.Duration `yaml:"article_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UserAgent      string        `yaml:"user_agent"`
	PoolSize       int           `yaml:"pool_size"`
	ArticleWorkers int           `yaml:"article_workers"`
}

// Recall holds the semantic recall tuning.
type Recall struct {
	Enabled           bool `yaml:"enabled"`
	MinLexicalScore   int  `yaml:"min_lexical_score"`
	MinRelevanceScore int  `yaml:"min_relevance_score"`
	TopK              int  `yaml:"top_k"`
}

// Embedding selects the embedding backend used by semantic recall.
type Embedding struct {
	Backend    string `yaml:"backend"`
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	APIToken   string `yaml:"api_token,omitempty"`
	Dimensions int    `yaml:"dimensions"`
}

// Config is the full configuration.
type Config struct {
	Sources   map[string]Source `yaml:"sources"`
	Cache     Cache             `yaml:"cache"`
	Fetch     Fetch             `yaml:"fetch"`
	Recall    Recall            `yaml:"recall"`
	Embedding Embedding         `yaml:"embedding"`
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "feedrank", "config.yaml")
}

// CacheDir returns the default on-disk cache location.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "feedrank")
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(defaultConfig, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return cfg
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data, Default())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte, base *Config) (*Config, error) {
	cfg := base
	if cfg == nil {
		cfg = &Config{}
	}
	defaults := maps.Clone(cfg.Sources)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergeSources(data, cfg, defaults); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeSources decodes each source entry over its default, since yaml
// replaces whole map values.
func mergeSources(data []byte, cfg *Config, defaults map[string]Source) error {
	var doc struct {
		Sources map[string]yaml.Node `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if len(doc.Sources) == 0 {
		return nil
	}

	merged := make(map[string]Source, len(defaults)+len(doc.Sources))
	maps.Copy(merged, defaults)
	for id, node := range doc.Sources {
		src := merged[id]
		if err := node.Decode(&src); err != nil {
			return fmt.Errorf("parsing config: source %s: %w", id, err)
		}
		merged[id] = src
	}
	cfg.Sources = merged
	return nil
}

// Load reads the configuration at path, or DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	for id := range c.Sources {
		if _, ok := sources.Lookup(id); !ok {
			return fmt.Errorf("%w: %w %q", ErrInvalidConfig, sources.ErrUnknownSource, id)
		}
	}
	if err := c.TTLs().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Fetch.ArticleTimeout <= 0 || c.Fetch.RequestTimeout <= 0 {
		return fmt.Errorf("%w: fetch timeouts must be positive", ErrInvalidConfig)
	}
	if c.Fetch.PoolSize < 1 || c.Fetch.ArticleWorkers < 1 {
		return fmt.Errorf("%w: pool sizes must be at least 1", ErrInvalidConfig)
	}
	if err := c.RecallSettings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// IsEnabled reports whether the source is enabled.
func (c *Config) IsEnabled(id string) bool {
	return c.Sources[id].Enabled
}

// IsConfigured reports whether the source has the credentials it needs.
// Sources that need none are always configured.
func (c *Config) IsConfigured(id string) bool {
	cfg, ok := sources.Lookup(id)
	if !ok {
		return false
	}
	if !cfg.RequiresAuth {
		return true
	}
	return c.Sources[id].AuthConfigured
}

// SetEnabled records the enabled state of a source.
func (c *Config) SetEnabled(id string, enabled bool) {
	if c.Sources == nil {
		c.Sources = make(map[string]Source)
	}
	s := c.Sources[id]
	s.Enabled = enabled
	c.Sources[id] = s
}

// RecallSettings returns the semantic recall tuning.
func (c *Config) RecallSettings() recall.Settings {
	return recall.Settings{
		Enabled:           c.Recall.Enabled,
		MinLexicalScore:   c.Recall.MinLexicalScore,
		MinRelevanceScore: c.Recall.MinRelevanceScore,
		TopK:              c.Recall.TopK,
	}
}

// TTLs returns the cache tier lifetimes.
func (c *Config) TTLs() storage.TTLs {
	return storage.TTLs{
		Feed:    c.Cache.FeedTTL,
		Article: c.Cache.ArticleTTL,
		Intent:  c.Cache.IntentTTL,
	}
}

// AIConfig returns the embedding configuration. An empty token falls back
// to the FEEDRANK_API_TOKEN environment variable.
func (c *Config) AIConfig() *ai.Config {
	token := c.Embedding.APIToken
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	return ai.NewConfig(
		ai.WithBackend(c.Embedding.Backend),
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithAPIToken(token),
		ai.WithDimensions(c.Embedding.Dimensions),
	)
}
