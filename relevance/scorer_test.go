package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(Profile{
		Baseline:  DefaultBaseline,
		Signals:   Signals{"async": 6, "best practice": 8, "Tutorial": 5},
		CodeBonus: DefaultCodeBonus,
	})

	tests := []struct {
		name    string
		text    string
		hasCode bool
		want    int
	}{
		{name: "baseline only", text: "nothing relevant", want: 50},
		{name: "single keyword", text: "async code", want: 56},
		{name: "keyword counted once", text: "async async async", want: 56},
		{name: "case insensitive", text: "A TUTORIAL on Best Practice", want: 63},
		{name: "code bonus", text: "async", hasCode: true, want: 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.text, tt.hasCode))
		})
	}
}

func TestScorer_Clamped(t *testing.T) {
	high := NewScorer(Profile{Baseline: 90, Signals: Signals{"swift": 40}, CodeBonus: 10})
	assert.Equal(t, 100, high.Score("swift", true))

	low := NewScorer(Profile{Baseline: 0, Signals: Signals{"spam": -30}})
	assert.Equal(t, 0, low.Score("spam", false))
}

func TestScorer_AsyncAwaitScenario(t *testing.T) {
	title := "Async Await Patterns"
	content := "```func foo() async {}```"

	hasCode := HasCode(content)
	scorer := NewScorer(Profile{Baseline: 50, Signals: Signals{"async": 6}, CodeBonus: 10})

	assert.True(t, hasCode)
	assert.Equal(t, 66, scorer.Score(title+" "+content, hasCode))
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(Profile{Baseline: 10, Signals: Signals{"a": 1, "b": 2, "c": 3}})
	first := scorer.Score("abc", false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score("abc", false))
	}
}
