package relevance

import (
	"slices"
	"strings"

	"github.com/poiesic/feedrank/core"
)

// DefaultBaseline is the starting score for sources with known quality.
const DefaultBaseline = 50

// DefaultCodeBonus is added when the content carries code.
const DefaultCodeBonus = 10

// Signals maps a lowercase keyword to the points it earns when present.
type Signals map[string]int

// Profile parameterizes a Scorer for one source.
type Profile struct {
	Baseline  int
	Signals   Signals
	CodeBonus int
}

// Scorer computes keyword-presence relevance scores.
type Scorer struct {
	baseline  int
	codeBonus int
	keywords  []string // sorted for a stable iteration order
	points    map[string]int
}

// NewScorer builds a scorer for profile. Keywords are lowercased.
func NewScorer(profile Profile) *Scorer {
	s := &Scorer{
		baseline:  profile.Baseline,
		codeBonus: profile.CodeBonus,
		points:    make(map[string]int, len(profile.Signals)),
	}
	for k, v := range profile.Signals {
		k = strings.ToLower(k)
		if _, ok := s.points[k]; !ok {
			s.keywords = append(s.keywords, k)
		}
		s.points[k] = v
	}
	slices.Sort(s.keywords)
	return s
}

// Score returns the relevance of text in [0,100]. Each keyword counts once
// no matter how often it occurs.
func (s *Scorer) Score(text string, hasCode bool) int {
	lower := strings.ToLower(text)
	score := s.baseline
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			score += s.points[k]
		}
	}
	if hasCode {
		score += s.codeBonus
	}
	return core.ClampScore(score)
}
