package hashing

import "github.com/poiesic/feedrank/ai"

// Provider implements ai.AIProvider with the local hashing embedder.
type Provider struct {
	embedder *Embedder
}

// NewProvider creates a hashing provider.
//
// Returns ai.AIProvider interface for consistency with other backends.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	embedder, err := NewEmbedder(config)
	if err != nil {
		return nil, err
	}
	return &Provider{embedder: embedder}, nil
}

// Embedder returns the hashing embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
