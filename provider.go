package feedrank

import (
	"fmt"

	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/ai/hashing"
	"github.com/poiesic/feedrank/ai/openai"
)

// NewProvider creates the embedding provider selected by cfg.Backend.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case ai.BackendHashing:
		return hashing.NewProvider(cfg)
	case ai.BackendOpenAI:
		return openai.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding backend %q", cfg.Backend)
	}
}
