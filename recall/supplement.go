package recall

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/feedrank/ai"
	"github.com/poiesic/feedrank/core"
)

// defaultBatchSize bounds the number of texts per EmbedTexts call.
const defaultBatchSize = 32

// maxEmbedChars bounds the document text embedded per document.
const maxEmbedChars = 2000

// CorpusFunc loads the full document collection of every enabled source.
type CorpusFunc func(ctx context.Context) ([]core.Document, error)

// Query is one recall request.
type Query struct {
	Text        string
	RequireCode bool
	Lexical     []core.Document // Lexical results, already scored
}

// semanticIndex holds normalized vectors for a document collection.
type semanticIndex struct {
	hash    string
	docs    []core.Document
	vectors [][]float32
}

// Supplement runs semantic recall against a lazily built semantic index.
type Supplement struct {
	embedder  ai.Embedder
	settings  Settings
	batchSize int
	logger    *slog.Logger

	index   atomic.Pointer[semanticIndex]
	buildMu sync.Mutex
}

// Option configures a Supplement.
type Option func(*Supplement) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supplement) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithBatchSize sets how many documents are embedded per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(s *Supplement) error {
		if size <= 0 {
			return fmt.Errorf("%w: batch size %d", ErrInvalidSettings, size)
		}
		s.batchSize = size
		return nil
	}
}

// New creates a recall supplement.
func New(embedder ai.Embedder, settings Settings, opts ...Option) (*Supplement, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Supplement{
		embedder:  embedder,
		settings:  settings,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "recall")
	return s, nil
}

// Settings returns the supplement's tuning.
func (s *Supplement) Settings() Settings {
	return s.settings
}

// Run evaluates the activation policy once and, when active, returns the
// supplemental documents for q. It never returns an error; failures are
// reported through Result.Status and Result.Err.
func (s *Supplement) Run(ctx context.Context, q Query, corpus CorpusFunc) (result Result) {
	if !s.settings.Enabled {
		return Result{Status: StatusInactive, Reason: "disabled"}
	}

	active, reason := ShouldActivate(q.Lexical, s.settings.MinLexicalScore)
	if !active {
		return Result{Status: StatusInactive, Reason: reason}
	}

	defer func() {
		if r := recover(); r != nil {
			result = s.degraded(reason, fmt.Errorf("recall panic: %v", r))
		}
	}()

	docs, err := corpus(ctx)
	if err != nil {
		return s.degraded(reason, fmt.Errorf("loading corpus: %w", err))
	}
	if len(docs) == 0 {
		return Result{Status: StatusNone, Reason: reason}
	}

	idx, err := s.ensureIndex(ctx, docs)
	if err != nil {
		return s.degraded(reason, fmt.Errorf("building semantic index: %w", err))
	}

	qv, err := s.embedder.EmbedText(ctx, q.Text)
	if err != nil {
		return s.degraded(reason, fmt.Errorf("embedding query: %w", err))
	}

	found := s.filter(idx.nearest(ai.NormalizeVector(qv), s.settings.TopK), q)
	if len(found) == 0 {
		return Result{Status: StatusNone, Reason: reason}
	}
	s.logger.Debug("recall added documents", "query", q.Text, "count", len(found))
	return Result{Status: StatusFound, Reason: reason, Documents: found}
}

func (s *Supplement) degraded(reason string, err error) Result {
	s.logger.Warn("semantic recall degraded", "reason", reason, "err", err)
	return Result{Status: StatusDegraded, Reason: reason, Err: err}
}

// filter drops candidates already among the lexical results, those without
// code when code is required, and those below the relevance floor.
func (s *Supplement) filter(candidates []core.Document, q Query) []core.Document {
	seen := make(map[string]bool, len(q.Lexical))
	for _, d := range q.Lexical {
		seen[d.ID] = true
	}

	out := make([]core.Document, 0, len(candidates))
	for _, d := range candidates {
		if seen[d.ID] {
			continue
		}
		if q.RequireCode && !d.HasCode {
			continue
		}
		if d.RelevanceScore < s.settings.MinRelevanceScore {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out
}

// ensureIndex returns a semantic index for docs, rebuilding it only when the
// collection's content hash changed.
func (s *Supplement) ensureIndex(ctx context.Context, docs []core.Document) (*semanticIndex, error) {
	hash := core.ContentHash(docs)
	if idx := s.index.Load(); idx != nil && idx.hash == hash {
		return idx, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if idx := s.index.Load(); idx != nil && idx.hash == hash {
		return idx, nil
	}

	s.logger.Debug("building semantic index", "documents", len(docs))
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = embeddingText(&docs[i])
	}

	vectors := make([][]float32, 0, len(docs))
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		batch, err := s.embedder.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, end-start, len(batch))
		}
		for _, v := range batch {
			vectors = append(vectors, ai.NormalizeVector(v))
		}
	}

	idx := &semanticIndex{hash: hash, docs: docs, vectors: vectors}
	s.index.Store(idx)
	return idx, nil
}

// embeddingText is the text embedded for a document.
func embeddingText(d *core.Document) string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")
	b.WriteString(strings.Join(d.Topics, " "))
	b.WriteString("\n")
	body := d.Excerpt
	if body == "" {
		body = d.Content
	}
	b.WriteString(body)
	text := b.String()
	if len(text) > maxEmbedChars {
		text = strings.ToValidUTF8(text[:maxEmbedChars], "")
	}
	return text
}

// nearest returns up to k documents by descending similarity. Only
// positively similar documents qualify; ties keep collection order.
func (idx *semanticIndex) nearest(query []float32, k int) []core.Document {
	type hit struct {
		pos   int
		score float32
	}
	hits := make([]hit, 0, len(idx.docs))
	for i, v := range idx.vectors {
		if score := ai.DotProduct(query, v); score > 0 {
			hits = append(hits, hit{pos: i, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	out := make([]core.Document, len(hits))
	for i, h := range hits {
		out[i] = idx.docs[h.pos]
	}
	return out
}
