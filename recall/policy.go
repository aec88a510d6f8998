package recall

import (
	"fmt"
	"sort"

	"github.com/poiesic/feedrank/core"
)

// Settings tunes the supplement.
type Settings struct {
	Enabled           bool
	MinLexicalScore   int // Activate when the best lexical score is below this
	MinRelevanceScore int // Floor for supplemental documents
	TopK              int
}

// DefaultSettings returns the default recall tuning.
func DefaultSettings() Settings {
	return Settings{
		Enabled:           true,
		MinLexicalScore:   50,
		MinRelevanceScore: 55,
		TopK:              20,
	}
}

// Validate checks score thresholds are within [0,100] and TopK is positive.
func (s Settings) Validate() error {
	if s.MinLexicalScore < core.MinScore || s.MinLexicalScore > core.MaxScore {
		return fmt.Errorf("%w: min lexical score %d", ErrInvalidSettings, s.MinLexicalScore)
	}
	if s.MinRelevanceScore < core.MinScore || s.MinRelevanceScore > core.MaxScore {
		return fmt.Errorf("%w: min relevance score %d", ErrInvalidSettings, s.MinRelevanceScore)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top k %d", ErrInvalidSettings, s.TopK)
	}
	return nil
}

// ShouldActivate decides whether recall runs for a lexical result set.
// It returns the decision and a short reason.
func ShouldActivate(lexical []core.Document, minLexicalScore int) (bool, string) {
	if len(lexical) == 0 {
		return true, "no lexical results"
	}
	best := lexical[0].RelevanceScore
	for _, d := range lexical[1:] {
		best = max(best, d.RelevanceScore)
	}
	if best < minLexicalScore {
		return true, fmt.Sprintf("best lexical score %d below %d", best, minLexicalScore)
	}
	return false, fmt.Sprintf("best lexical score %d", best)
}

// Merge appends supplemental documents to the lexical ones and sorts the
// result by relevance, highest first. Ties keep lexical documents first.
func Merge(lexical, supplemental []core.Document) []core.Document {
	merged := make([]core.Document, 0, len(lexical)+len(supplemental))
	merged = append(merged, lexical...)
	merged = append(merged, supplemental...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})
	return merged
}
