package core

import (
	"slices"
	"strconv"
	"strings"
)

// IntentKey identifies one logical query shape for the intent cache.
// Build it with NewIntentKey so order-independent inputs are normalized.
type IntentKey struct {
	Tool        string
	Query       string
	MinQuality  int
	Sources     []string
	RequireCode bool
}

// NewIntentKey normalizes the query text and the source list (lowercased,
// trimmed, deduplicated, sorted) so logically identical queries produce
// byte-identical keys.
func NewIntentKey(tool, query string, minQuality int, sources []string, requireCode bool) (IntentKey, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return IntentKey{}, ErrEmptyTool
	}
	normalized, err := ValidateQuery(query)
	if err != nil {
		return IntentKey{}, err
	}

	srcs := make([]string, 0, len(sources))
	for _, s := range sources {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			srcs = append(srcs, s)
		}
	}
	slices.Sort(srcs)
	srcs = slices.Compact(srcs)

	return IntentKey{
		Tool:        tool,
		Query:       normalized,
		MinQuality:  minQuality,
		Sources:     srcs,
		RequireCode: requireCode,
	}, nil
}

// String renders the canonical form used as the cache key.
// Format: tool|"query"|minQuality|src1,src2|code
func (k IntentKey) String() string {
	var b strings.Builder
	b.WriteString(k.Tool)
	b.WriteByte('|')
	b.WriteString(strconv.Quote(k.Query))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(k.MinQuality))
	b.WriteByte('|')
	b.WriteString(strings.Join(k.Sources, ","))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(k.RequireCode))
	return b.String()
}
