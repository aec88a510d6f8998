package search

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/agnivade/levenshtein"
	"github.com/poiesic/feedrank/core"
)

// BM25+ parameters
const (
	bm25K = 1.2
	bm25B = 0.7
	bm25D = 0.5
)

// Relative weights of non-exact term matches
const (
	prefixWeight = 0.375
	fuzzyWeight  = 0.45
	maxFuzzy     = 6
)

type field int

const (
	fieldTitle field = iota
	fieldTopics
	fieldContent
	numFields
)

// Boost holds per-field multipliers applied to raw match scores.
type Boost struct {
	Title   float64
	Topics  float64
	Content float64
}

func (b Boost) of(f field) float64 {
	switch f {
	case fieldTitle:
		return b.Title
	case fieldTopics:
		return b.Topics
	default:
		return b.Content
	}
}

// DefaultBoost weights titles highest, then topics, then body text.
var DefaultBoost = Boost{Title: 2, Topics: 1.5, Content: 1}

// Options controls query matching.
type Options struct {
	Fuzzy    float64 // Max edit distance as a fraction of query term length
	Prefix   bool
	Boost    Boost
	MinScore float64
}

// DefaultOptions returns the options an Index uses unless told otherwise.
func DefaultOptions() Options {
	return Options{
		Fuzzy:  0.2,
		Prefix: true,
		Boost:  DefaultBoost,
	}
}

// Result is one matching document with its raw score and the query terms
// that matched it.
type Result struct {
	Document core.Document
	Score    float64
	Matches  []string
}

type posting struct {
	doc int
	tf  int
}

type fieldIndex struct {
	postings map[string][]posting
	lengths  []int
	avgLen   float64
}

// snapshot is an immutable view of an indexed collection.
type snapshot struct {
	docs       []core.Document
	hash       string
	fields     [numFields]fieldIndex
	terms      []string // sorted, union of all fields
	vocabulary []string // sorted surface words
}

// Index is an inverted index over a document collection. AddDocuments
// replaces the whole collection; readers always see either the previous or
// the new snapshot, never a partial one.
type Index struct {
	snap     atomic.Pointer[snapshot]
	defaults Options
}

// Option configures an Index.
type Option func(*Index) error

// WithFuzzy sets the default fuzzy ratio. Zero disables fuzzy matching.
func WithFuzzy(ratio float64) Option {
	return func(ix *Index) error {
		if ratio < 0 || ratio >= 1 {
			return fmt.Errorf("%w: fuzzy ratio %v not in [0,1)", ErrInvalidOption, ratio)
		}
		ix.defaults.Fuzzy = ratio
		return nil
	}
}

// WithPrefix enables or disables prefix matching by default.
func WithPrefix(enabled bool) Option {
	return func(ix *Index) error {
		ix.defaults.Prefix = enabled
		return nil
	}
}

// WithBoost sets the default field boosts.
func WithBoost(b Boost) Option {
	return func(ix *Index) error {
		if b.Title < 0 || b.Topics < 0 || b.Content < 0 {
			return fmt.Errorf("%w: negative boost", ErrInvalidOption)
		}
		ix.defaults.Boost = b
		return nil
	}
}

// WithMinScore drops results scoring below threshold.
func WithMinScore(threshold float64) Option {
	return func(ix *Index) error {
		ix.defaults.MinScore = threshold
		return nil
	}
}

// NewIndex creates an empty index.
func NewIndex(opts ...Option) (*Index, error) {
	ix := &Index{defaults: DefaultOptions()}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.snap.Store(buildSnapshot(nil))
	return ix, nil
}

// Options returns the defaults applied to Search.
func (ix *Index) Options() Options {
	return ix.defaults
}

// AddDocuments replaces the index contents with docs.
func (ix *Index) AddDocuments(docs []core.Document) {
	ix.snap.Store(buildSnapshot(docs))
}

// Hash returns the content hash of the indexed collection.
func (ix *Index) Hash() string {
	return ix.snap.Load().hash
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.snap.Load().docs)
}

// Vocabulary returns the sorted set of indexed surface words, suitable as
// known terms for Suggest.
func (ix *Index) Vocabulary() []string {
	return slices.Clone(ix.snap.Load().vocabulary)
}

// Search runs query against the index with the index defaults.
func (ix *Index) Search(query string) []Result {
	return ix.SearchWith(query, ix.defaults)
}

// SearchWith runs query with explicit options. Query terms are OR-combined.
// An empty query (or one made only of stop words) matches nothing.
func (ix *Index) SearchWith(query string, opts Options) []Result {
	s := ix.snap.Load()
	qterms := dedupe(Tokenize(query))
	if len(qterms) == 0 || len(s.docs) == 0 {
		return []Result{}
	}

	scores := make([]float64, len(s.docs))
	matched := make([][]string, len(s.docs))

	for _, q := range qterms {
		for _, m := range s.expand(q, opts) {
			for f := field(0); f < numFields; f++ {
				boost := opts.Boost.of(f)
				if boost == 0 {
					continue
				}
				fi := &s.fields[f]
				plist := fi.postings[m.term]
				if len(plist) == 0 {
					continue
				}
				idf := math.Log(1 + (float64(len(s.docs))-float64(len(plist))+0.5)/(float64(len(plist))+0.5))
				for _, p := range plist {
					scores[p.doc] += m.weight * boost * idf * bm25(p.tf, fi.lengths[p.doc], fi.avgLen)
					if !slices.Contains(matched[p.doc], q) {
						matched[p.doc] = append(matched[p.doc], q)
					}
				}
			}
		}
	}

	results := make([]Result, 0)
	for i, score := range scores {
		if score <= 0 || score < opts.MinScore {
			continue
		}
		results = append(results, Result{
			Document: s.docs[i],
			Score:    score,
			Matches:  matched[i],
		})
	}
	// Stable: equal scores keep insertion order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func bm25(tf, length int, avgLen float64) float64 {
	if avgLen == 0 {
		avgLen = 1
	}
	ftf := float64(tf)
	norm := ftf * (bm25K + 1) / (ftf + bm25K*(1-bm25B+bm25B*float64(length)/avgLen))
	return bm25D + norm
}

type termMatch struct {
	term   string
	weight float64
}

// expand finds indexed terms matching q, each with the best weight it earns.
// Preserved technical terms only match themselves.
func (s *snapshot) expand(q string, opts Options) []termMatch {
	if IsPreserved(q) {
		if _, ok := slices.BinarySearch(s.terms, q); ok {
			return []termMatch{{term: q, weight: 1}}
		}
		return nil
	}

	maxDist := 0
	if opts.Fuzzy > 0 {
		maxDist = min(int(math.Round(float64(len(q))*opts.Fuzzy)), maxFuzzy)
	}

	var out []termMatch
	for _, t := range s.terms {
		if t == q {
			out = append(out, termMatch{term: t, weight: 1})
			continue
		}

		var w float64
		if opts.Prefix && strings.HasPrefix(t, q) {
			distance := len(t) - len(q)
			w = prefixWeight * float64(len(t)) / (float64(len(t)) + 0.3*float64(distance))
		}
		if maxDist > 0 && abs(len(t)-len(q)) <= maxDist {
			if d := levenshtein.ComputeDistance(q, t); d <= maxDist {
				fw := fuzzyWeight * float64(len(q)) / float64(len(q)+d)
				w = max(w, fw)
			}
		}
		if w > 0 {
			out = append(out, termMatch{term: t, weight: w})
		}
	}
	return out
}

func buildSnapshot(docs []core.Document) *snapshot {
	s := &snapshot{
		docs: slices.Clone(docs),
		hash: core.ContentHash(docs),
	}

	termSet := make(map[string]struct{})
	vocab := make(map[string]struct{})
	for f := field(0); f < numFields; f++ {
		s.fields[f] = fieldIndex{
			postings: make(map[string][]posting),
			lengths:  make([]int, len(docs)),
		}
	}

	for i := range s.docs {
		d := &s.docs[i]
		texts := [numFields]string{
			fieldTitle:   d.Title,
			fieldTopics:  strings.Join(d.Topics, " "),
			fieldContent: d.Content,
		}
		for f, text := range texts {
			surface := words(text)
			fi := &s.fields[f]
			fi.lengths[i] = len(surface)

			counts := make(map[string]int)
			var order []string
			for _, w := range surface {
				vocab[w] = struct{}{}
				t := normalizeTerm(w)
				if counts[t] == 0 {
					order = append(order, t)
				}
				counts[t]++
			}
			for _, t := range order {
				fi.postings[t] = append(fi.postings[t], posting{doc: i, tf: counts[t]})
				termSet[t] = struct{}{}
			}
		}
	}

	for f := field(0); f < numFields; f++ {
		fi := &s.fields[f]
		total := 0
		for _, l := range fi.lengths {
			total += l
		}
		if len(docs) > 0 {
			fi.avgLen = float64(total) / float64(len(docs))
		}
	}

	s.terms = sortedKeys(termSet)
	s.vocabulary = sortedKeys(vocab)
	return s
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
