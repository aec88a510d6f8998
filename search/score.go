package search

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultSearchWeight is the share of a combined score taken by the
// lexical match.
const DefaultSearchWeight = 0.6

// rawScoreCeiling is the raw index score treated as a perfect match.
const rawScoreCeiling = 10.0

// NormalizeScore maps a raw index score onto [0,100].
func NormalizeScore(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	return math.Min(raw/rawScoreCeiling, 1) * 100
}

// CombineScores fuses a raw lexical score with a static relevance score.
// The result is rounded and clamped to [0,100].
func CombineScores(raw float64, static int, searchWeight float64) int {
	searchWeight = math.Max(0, math.Min(searchWeight, 1))
	combined := math.Round(NormalizeScore(raw)*searchWeight + float64(static)*(1-searchWeight))
	return int(math.Max(0, math.Min(combined, 100)))
}

// Suggest returns up to limit known terms within edit distance 1..3 of query,
// closest first. Terms at equal distance keep their input order.
func Suggest(query string, knownTerms []string, limit int) []string {
	type candidate struct {
		term     string
		distance int
	}

	q := strings.ToLower(query)
	candidates := make([]candidate, 0)
	for _, term := range knownTerms {
		d := levenshtein.ComputeDistance(q, strings.ToLower(term))
		if d > 0 && d <= 3 {
			candidates = append(candidates, candidate{term: term, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]string, 0, limit)
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].term)
	}
	return out
}
