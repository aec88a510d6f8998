package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/ai/hashing"
	"github.com/poiesic/feedrank/ai/mock"
	"github.com/poiesic/feedrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusDocs() []core.Document {
	return []core.Document{
		{ID: "a", Title: "Protecting mutable state with an actor", Topics: []string{"concurrency"}, RelevanceScore: 70, HasCode: true},
		{ID: "b", Title: "Actors and mutable state pitfalls", Topics: []string{"concurrency"}, RelevanceScore: 40, HasCode: true},
		{ID: "c", Title: "Actor isolation for mutable state", Topics: []string{"concurrency"}, RelevanceScore: 75, HasCode: false},
		{ID: "d", Title: "Mutable state inside an actor", Topics: []string{"concurrency"}, RelevanceScore: 30},
	}
}

func staticCorpus(docs []core.Document) CorpusFunc {
	return func(ctx context.Context) ([]core.Document, error) {
		return docs, nil
	}
}

func newHashingSupplement(t *testing.T) *Supplement {
	t.Helper()
	embedder, err := hashing.NewEmbedder(ai.DefaultConfig())
	require.NoError(t, err)
	s, err := New(embedder, DefaultSettings())
	require.NoError(t, err)
	return s
}

func ids(docs []core.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New(nil, DefaultSettings())
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	bad := DefaultSettings()
	bad.TopK = -1
	_, err = New(mock.NewMockEmbedder(), bad)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = New(mock.NewMockEmbedder(), DefaultSettings(), WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestRun_Inactive(t *testing.T) {
	s := newHashingSupplement(t)
	called := false
	corpus := func(ctx context.Context) ([]core.Document, error) {
		called = true
		return corpusDocs(), nil
	}

	result := s.Run(context.Background(), Query{
		Text:    "actor state",
		Lexical: []core.Document{{ID: "x", RelevanceScore: 50}},
	}, corpus)

	assert.Equal(t, StatusInactive, result.Status)
	assert.Empty(t, result.Documents)
	assert.False(t, called, "corpus must not load when recall is inactive")
}

func TestRun_Disabled(t *testing.T) {
	settings := DefaultSettings()
	settings.Enabled = false
	s, err := New(mock.NewMockEmbedder(), settings)
	require.NoError(t, err)

	result := s.Run(context.Background(), Query{Text: "anything"}, staticCorpus(corpusDocs()))
	assert.Equal(t, StatusInactive, result.Status)
	assert.Equal(t, "disabled", result.Reason)
}

func TestRun_Found(t *testing.T) {
	s := newHashingSupplement(t)

	result := s.Run(context.Background(), Query{
		Text:    "actor mutable state",
		Lexical: []core.Document{{ID: "c", RelevanceScore: 20}},
	}, staticCorpus(corpusDocs()))

	require.Equal(t, StatusFound, result.Status)
	found := ids(result.Documents)
	assert.Contains(t, found, "a")
	assert.NotContains(t, found, "b", "below relevance floor")
	assert.NotContains(t, found, "c", "already among lexical results")
	assert.NotContains(t, found, "d", "below relevance floor")
}

func TestRun_RequireCode(t *testing.T) {
	s := newHashingSupplement(t)

	result := s.Run(context.Background(), Query{
		Text:        "actor mutable state",
		RequireCode: true,
	}, staticCorpus(corpusDocs()))

	require.Equal(t, StatusFound, result.Status)
	for _, d := range result.Documents {
		assert.True(t, d.HasCode, d.ID)
	}
	assert.Contains(t, ids(result.Documents), "a")
}

func TestRun_NoneWhenNothingQualifies(t *testing.T) {
	s := newHashingSupplement(t)
	docs := []core.Document{{ID: "low", Title: "actor mutable state", RelevanceScore: 10}}

	result := s.Run(context.Background(), Query{Text: "actor mutable state"}, staticCorpus(docs))
	assert.Equal(t, StatusNone, result.Status)
	assert.NoError(t, result.Err)

	result = s.Run(context.Background(), Query{Text: "actor"}, staticCorpus(nil))
	assert.Equal(t, StatusNone, result.Status)
}

func TestRun_Degraded(t *testing.T) {
	boom := errors.New("boom")

	t.Run("corpus failure", func(t *testing.T) {
		s, err := New(mock.NewMockEmbedder(), DefaultSettings())
		require.NoError(t, err)
		result := s.Run(context.Background(), Query{Text: "actor"}, func(ctx context.Context) ([]core.Document, error) {
			return nil, boom
		})
		assert.Equal(t, StatusDegraded, result.Status)
		assert.ErrorIs(t, result.Err, boom)
		assert.Empty(t, result.Documents)
	})

	t.Run("index build failure", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, boom
		}
		s, err := New(m, DefaultSettings())
		require.NoError(t, err)
		result := s.Run(context.Background(), Query{Text: "actor"}, staticCorpus(corpusDocs()))
		assert.Equal(t, StatusDegraded, result.Status)
		assert.ErrorIs(t, result.Err, boom)
	})

	t.Run("embedding count mismatch", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}
		s, err := New(m, DefaultSettings())
		require.NoError(t, err)
		result := s.Run(context.Background(), Query{Text: "actor"}, staticCorpus(corpusDocs()))
		assert.Equal(t, StatusDegraded, result.Status)
		assert.ErrorIs(t, result.Err, ErrEmbeddingMismatch)
	})

	t.Run("query failure", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, boom
		}
		s, err := New(m, DefaultSettings())
		require.NoError(t, err)
		result := s.Run(context.Background(), Query{Text: "actor"}, staticCorpus(corpusDocs()))
		assert.Equal(t, StatusDegraded, result.Status)
	})

	t.Run("panic", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			panic("unexpected")
		}
		s, err := New(m, DefaultSettings())
		require.NoError(t, err)
		result := s.Run(context.Background(), Query{Text: "actor"}, staticCorpus(corpusDocs()))
		assert.Equal(t, StatusDegraded, result.Status)
		assert.Error(t, result.Err)
	})
}

func TestRun_IndexReuse(t *testing.T) {
	m := mock.NewMockEmbedder()
	s, err := New(m, DefaultSettings(), WithBatchSize(2))
	require.NoError(t, err)
	ctx := context.Background()
	docs := corpusDocs()

	s.Run(ctx, Query{Text: "actor"}, staticCorpus(docs))
	// two batches of two plus the query
	assert.Equal(t, 3, m.CallCount())

	s.Run(ctx, Query{Text: "state"}, staticCorpus(docs))
	assert.Equal(t, 4, m.CallCount(), "unchanged corpus must reuse vectors")

	s.Run(ctx, Query{Text: "state"}, staticCorpus(docs[:3]))
	assert.Equal(t, 7, m.CallCount(), "changed corpus must rebuild")
}

func TestRun_TopK(t *testing.T) {
	embedder, err := hashing.NewEmbedder(ai.DefaultConfig())
	require.NoError(t, err)
	settings := DefaultSettings()
	settings.TopK = 1
	settings.MinRelevanceScore = 0
	s, err := New(embedder, settings)
	require.NoError(t, err)

	result := s.Run(context.Background(), Query{Text: "actor mutable state"}, staticCorpus(corpusDocs()))
	require.Equal(t, StatusFound, result.Status)
	assert.Len(t, result.Documents, 1)
}
