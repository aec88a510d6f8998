package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/feedrank/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Default(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "swift")
	require.NoError(t, err)
	b, err := m.EmbedTexts(ctx, []string{"swift"})
	require.NoError(t, err)

	assert.Equal(t, a, b[0])
	assert.Len(t, a, DefaultDimensions)
	assert.InDelta(t, 1.0, ai.DotProduct(a, a), 1e-5)
	assert.Equal(t, 2, m.CallCount())
}

func TestMockEmbedder_Injected(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("boom")
	}

	_, err := m.EmbedTexts(context.Background(), []string{"x"})
	assert.Error(t, err)

	m.Reset()
	assert.Zero(t, m.CallCount())
	_, err = m.EmbedTexts(context.Background(), []string{"x"})
	assert.NoError(t, err)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider().(*MockProvider)
	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
