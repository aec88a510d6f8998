package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineScores(t *testing.T) {
	tests := []struct {
		name   string
		raw    float64
		static int
		weight float64
		want   int
	}{
		{name: "balanced", raw: 5, static: 50, weight: DefaultSearchWeight, want: 50},
		{name: "saturated raw score", raw: 20, static: 80, weight: DefaultSearchWeight, want: 92},
		{name: "zero", raw: 0, static: 0, weight: DefaultSearchWeight, want: 0},
		{name: "negative raw", raw: -3, static: 0, weight: DefaultSearchWeight, want: 0},
		{name: "static above range clamps", raw: 100, static: 300, weight: DefaultSearchWeight, want: 100},
		{name: "static only", raw: 8, static: 70, weight: 0, want: 70},
		{name: "search only", raw: 8, static: 70, weight: 1, want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CombineScores(tt.raw, tt.static, tt.weight))
		})
	}
}

func TestCombineScores_Bounded(t *testing.T) {
	for _, raw := range []float64{-10, 0, 0.5, 3, 9.99, 10, 1000} {
		for _, static := range []int{-50, 0, 42, 100, 250} {
			got := CombineScores(raw, static, DefaultSearchWeight)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestSuggest(t *testing.T) {
	known := []string{"actor", "actors", "factory", "xyz"}

	assert.Equal(t, []string{"actor", "actors", "factory"}, Suggest("actr", known, 3))
	assert.Equal(t, []string{"actor", "actors"}, Suggest("actr", known, 2))
	assert.Empty(t, Suggest("actor", []string{"actor"}, 3))
	assert.Equal(t, []string{"Actor"}, Suggest("ACTR", []string{"Actor"}, 3))
}
