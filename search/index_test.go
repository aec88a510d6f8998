package search

import (
	"testing"

	"github.com/poiesic/feedrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []core.Document {
	return []core.Document{
		{ID: "s-1", Title: "Async Await Patterns", Content: "Using async functions with structured tasks", Topics: []string{"concurrency"}},
		{ID: "s-2", Title: "Networking in depth", Content: "Building a network layer with URLSession", Topics: []string{"networking"}},
		{ID: "s-3", Title: "Swifty tips", Content: "Small helpers for everyday code", Topics: []string{"tips"}},
		{ID: "s-4", Title: "Layout basics", Content: "Stacks and grids for layout in views", Topics: []string{"swiftui"}},
	}
}

func newTestIndex(t *testing.T, docs []core.Document, opts ...Option) *Index {
	t.Helper()
	ix, err := NewIndex(opts...)
	require.NoError(t, err)
	ix.AddDocuments(docs)
	return ix
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.ID
	}
	return out
}

func TestIndex_Search(t *testing.T) {
	ix := newTestIndex(t, testDocs())

	t.Run("exact match", func(t *testing.T) {
		results := ix.Search("layout")
		require.NotEmpty(t, results)
		assert.Equal(t, "s-4", results[0].Document.ID)
		assert.Contains(t, results[0].Matches, "layout")
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		assert.Empty(t, ix.Search(""))
		assert.Empty(t, ix.Search("   "))
	})

	t.Run("stop words only matches nothing", func(t *testing.T) {
		assert.Empty(t, ix.Search("the and of"))
	})

	t.Run("typo within fuzzy distance", func(t *testing.T) {
		results := ix.Search("asyc")
		require.NotEmpty(t, results)
		assert.Equal(t, "s-1", results[0].Document.ID)
	})

	t.Run("single substitution in long term", func(t *testing.T) {
		results := ix.Search("netwark")
		assert.Contains(t, ids(results), "s-2")
	})

	t.Run("prefix match", func(t *testing.T) {
		results := ix.Search("struct")
		// struct is a preserved term and only matches itself
		assert.NotContains(t, ids(results), "s-1")

		results = ix.Search("netw")
		assert.Contains(t, ids(results), "s-2")
	})

	t.Run("preserved terms do not fuzz", func(t *testing.T) {
		assert.NotContains(t, ids(ix.Search("swift")), "s-3")
	})

	t.Run("terms are or combined", func(t *testing.T) {
		results := ix.Search("layout networking")
		assert.ElementsMatch(t, []string{"s-2", "s-4"}, ids(results))
	})
}

func TestIndex_FuzzyDisabled(t *testing.T) {
	ix := newTestIndex(t, testDocs(), WithFuzzy(0), WithPrefix(false))
	assert.Empty(t, ix.Search("asyc"))
	assert.Empty(t, ix.Search("netwark"))
}

func TestIndex_Boost(t *testing.T) {
	docs := []core.Document{
		{ID: "content", Title: "other words here", Content: "actors"},
		{ID: "title", Title: "actors", Content: "other words here"},
	}
	ix := newTestIndex(t, docs)

	results := ix.Search("actors")
	require.Len(t, results, 2)
	assert.Equal(t, "title", results[0].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)

	opts := ix.Options()
	opts.Boost = Boost{Title: 1, Topics: 1, Content: 3}
	results = ix.SearchWith("actors", opts)
	require.Len(t, results, 2)
	assert.Equal(t, "content", results[0].Document.ID)
}

func TestIndex_StableTies(t *testing.T) {
	docs := []core.Document{
		{ID: "b", Title: "Result builders"},
		{ID: "a", Title: "Result builders"},
		{ID: "c", Title: "Result builders"},
	}
	ix := newTestIndex(t, docs)

	assert.Equal(t, []string{"b", "a", "c"}, ids(ix.Search("builders")))
}

func TestIndex_Deterministic(t *testing.T) {
	ix := newTestIndex(t, testDocs())
	first := ix.Search("async layout network")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ix.Search("async layout network"))
	}

	other := newTestIndex(t, testDocs())
	assert.Equal(t, first, other.Search("async layout network"))
}

func TestIndex_MinScore(t *testing.T) {
	ix := newTestIndex(t, testDocs(), WithMinScore(1e9))
	assert.Empty(t, ix.Search("layout"))
}

func TestIndex_AddDocumentsReplaces(t *testing.T) {
	ix := newTestIndex(t, testDocs())
	before := ix.Hash()
	require.NotEmpty(t, ix.Search("layout"))

	ix.AddDocuments([]core.Document{{ID: "n-1", Title: "Macros"}})
	assert.Empty(t, ix.Search("layout"))
	assert.Len(t, ix.Search("macros"), 1)
	assert.Equal(t, 1, ix.Len())
	assert.NotEqual(t, before, ix.Hash())
	assert.Equal(t, core.ContentHash([]core.Document{{ID: "n-1"}}), ix.Hash())
}

func TestIndex_Vocabulary(t *testing.T) {
	ix := newTestIndex(t, []core.Document{{ID: "v-1", Title: "Layout patterns", Topics: []string{"swiftui"}}})
	assert.Equal(t, []string{"layout", "patterns", "swiftui"}, ix.Vocabulary())
}

func TestNewIndex_InvalidOptions(t *testing.T) {
	_, err := NewIndex(WithFuzzy(1.5))
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = NewIndex(WithBoost(Boost{Title: -1}))
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestIndex_ConcurrentReaders(t *testing.T) {
	ix := newTestIndex(t, testDocs())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			ix.AddDocuments(testDocs())
		}
	}()
	for i := 0; i < 50; i++ {
		results := ix.Search("layout")
		require.NotEmpty(t, results)
	}
	<-done
}
