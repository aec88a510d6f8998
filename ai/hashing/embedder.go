package hashing

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"

	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/search"
)

// trigramWeight scales character trigram features relative to whole stems.
const trigramWeight = 0.5

// Embedder implements ai.Embedder with feature hashing.
type Embedder struct {
	dims   int
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder producing vectors of config.Dimensions.
func NewEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		dims:   config.Dimensions,
		logger: slog.Default().With("component", "hashing-embedder"),
	}, nil
}

// EmbedText embeds a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts embeds texts in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	counts := make(map[string]int)
	for _, tok := range search.Tokenize(text) {
		counts[tok]++
	}

	vector := make([]float32, e.dims)
	for tok, n := range counts {
		// Sublinear term frequency
		weight := float32(1 + math.Log(float64(n)))
		e.add(vector, "w:"+tok, weight)
		for _, tri := range trigrams(tok) {
			e.add(vector, "t:"+tri, weight*trigramWeight)
		}
	}
	return ai.NormalizeVector(vector)
}

// add hashes feature into a bucket; one hash bit picks the sign so
// collisions tend to cancel rather than accumulate.
func (e *Embedder) add(vector []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vector[bucket] += weight
}

// trigrams returns the character trigrams of a padded token.
func trigrams(tok string) []string {
	padded := []rune("^" + tok + "$")
	if len(padded) < 3 {
		return nil
	}
	out := make([]string, 0, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		out = append(out, string(padded[i:i+3]))
	}
	return out
}
