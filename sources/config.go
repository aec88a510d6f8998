package sources

import (
	"fmt"
	"time"

	"github.com/poiesic/feedrank/relevance"
	"github.com/poiesic/feedrank/search"
)

// ExcerptLength is the number of runes of the feed snippet kept as excerpt.
const ExcerptLength = 300

// DefaultBoost weights fields for per-source searches.
var DefaultBoost = search.Boost{Title: 2.5, Topics: 1.8, Content: 1}

// Config describes one source. Behavior is entirely data driven.
type Config struct {
	ID          string
	Name        string
	Description string
	FeedURL     string

	Baseline       int
	CodeBonus      int
	TopicKeywords  relevance.TopicKeywords
	QualitySignals relevance.Signals

	// FetchFullArticle replaces the feed content of every item with the
	// extracted article body when the article can be fetched in time.
	FetchFullArticle bool
	// ExtractContent reduces article HTML to text. Nil keeps the raw HTML.
	ExtractContent ExtractFunc

	// Zero TTLs fall back to the cache tier defaults.
	FeedTTL    time.Duration
	ArticleTTL time.Duration

	RequiresAuth bool
	Boost        search.Boost
}

// Validate reports whether the configuration can back a Source.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConfig)
	}
	if c.FeedURL == "" {
		return fmt.Errorf("%w: source %s has no feed url", ErrInvalidConfig, c.ID)
	}
	if c.FeedTTL < 0 || c.ArticleTTL < 0 {
		return fmt.Errorf("%w: source %s has a negative ttl", ErrInvalidConfig, c.ID)
	}
	return nil
}

// profile returns the scoring profile of the source.
func (c *Config) profile() relevance.Profile {
	return relevance.Profile{
		Baseline:  c.Baseline,
		Signals:   c.QualitySignals,
		CodeBonus: c.CodeBonus,
	}
}

func (c *Config) boost() search.Boost {
	if c.Boost == (search.Boost{}) {
		return DefaultBoost
	}
	return c.Boost
}
