package feedrank

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/feedrank/aggregate"
	"github.com/poiesic/feedrank/core"
	"github.com/poiesic/feedrank/recall"
	"github.com/poiesic/feedrank/sources"
)

// SearchQuery is a free-text content search.
type SearchQuery struct {
	Query       string
	RequireCode bool     // Only documents containing code
	Sources     []string // Empty or "all" selects every enabled source
}

// PatternQuery looks up high-quality documents about a topic.
type PatternQuery struct {
	Topic      string
	Sources    []string
	MinQuality int // Zero means DefaultMinQuality
}

// Response is a ranked result list.
type Response struct {
	Documents []core.Document
	Cached    bool             // Served from the intent cache
	Recall    recall.Result    // Semantic recall outcome; inactive for cached responses
	Failed    map[string]error // Sources that contributed nothing
}

// SourceInfo describes a catalog source and its state.
type SourceInfo struct {
	ID           string
	Name         string
	Description  string
	RequiresAuth bool
	Enabled      bool
	Configured   bool
}

// Sources lists the catalog with each source's state, in catalog order.
func (e *Engine) Sources() []SourceInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	infos := make([]SourceInfo, len(e.catalog))
	for i, c := range e.catalog {
		infos[i] = SourceInfo{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			RequiresAuth: c.RequiresAuth,
			Enabled:      e.enabled[c.ID],
			Configured:   e.configured[c.ID],
		}
	}
	return infos
}

// EnableSource enables a catalog source. Sources needing credentials must
// be configured first.
func (e *Engine) EnableSource(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.ContainsFunc(e.catalog, func(c sources.Config) bool { return c.ID == id }) {
		return fmt.Errorf("%w: %q", sources.ErrUnknownSource, id)
	}
	if !e.configured[id] {
		return fmt.Errorf("%w: %s", sources.ErrAuthRequired, id)
	}
	if _, ok := e.sources[id]; !ok {
		return fmt.Errorf("%w: %s has no feed url", sources.ErrInvalidConfig, id)
	}
	e.enabled[id] = true
	e.logger.Info("source enabled", "source", id)
	return nil
}

// DisableSource disables a catalog source.
func (e *Engine) DisableSource(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.enabled[id]; !ok {
		return fmt.Errorf("%w: %q", sources.ErrUnknownSource, id)
	}
	e.enabled[id] = false
	return nil
}

// selectSources resolves requested ids to enabled sources in catalog order.
func (e *Engine) selectSources(ids []string) ([]*sources.Source, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all := len(ids) == 0
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == AllSources || id == "" {
			all = true
			continue
		}
		if _, ok := e.enabled[id]; !ok {
			return nil, fmt.Errorf("%w: %q", sources.ErrUnknownSource, id)
		}
		if !e.enabled[id] {
			return nil, fmt.Errorf("%w: %s", ErrSourceDisabled, id)
		}
		want[id] = true
	}

	out := make([]*sources.Source, 0, len(e.catalog))
	for _, c := range e.catalog {
		if !e.enabled[c.ID] || (!all && !want[c.ID]) {
			continue
		}
		if src, ok := e.sources[c.ID]; ok {
			out = append(out, src)
		}
	}
	return out, nil
}

func asAggregate(srcs []*sources.Source) []aggregate.Source {
	out := make([]aggregate.Source, len(srcs))
	for i, s := range srcs {
		out[i] = s
	}
	return out
}

func sourceIDs(srcs []*sources.Source) []string {
	ids := make([]string, len(srcs))
	for i, s := range srcs {
		ids[i] = s.ID()
	}
	return ids
}

// Search runs a content search across the selected sources. Lexical results
// are supplemented by semantic recall when they are weak. Identical queries
// are answered from the intent cache until it expires.
func (e *Engine) Search(ctx context.Context, q SearchQuery) (Response, error) {
	srcs, err := e.selectSources(q.Sources)
	if err != nil {
		return Response{}, err
	}
	key, err := core.NewIntentKey(ToolSearch, q.Query, 0, sourceIDs(srcs), q.RequireCode)
	if err != nil {
		return Response{}, err
	}
	if docs, ok := e.tiers.Intents.Get(ctx, key.String()); ok {
		return Response{Documents: docs, Cached: true, Failed: map[string]error{}}, nil
	}

	e.monitor.Start(key.Query)
	out, err := e.aggregator.SearchAll(ctx, asAggregate(srcs), key.Query)
	if err != nil {
		return Response{}, err
	}
	lexical := out.Documents
	if q.RequireCode {
		lexical = slices.DeleteFunc(lexical, func(d core.Document) bool { return !d.HasCode })
	}
	e.monitor.AfterLexicalSearch(lexical)

	rec := e.recall.Run(ctx, recall.Query{Text: key.Query, RequireCode: q.RequireCode, Lexical: lexical}, e.Documents)
	if rec.Active() {
		e.monitor.RecallActivated(rec.Reason)
		e.monitor.AfterRecall(rec.Status.String(), rec.Documents)
	}
	docs := recall.Merge(lexical, rec.Documents)
	e.monitor.Finish(docs)

	resp := Response{Documents: docs, Recall: rec, Failed: out.Failed}
	e.remember(ctx, key, resp)
	return resp, nil
}

// Patterns returns documents about topic scoring at least the quality floor,
// best first.
func (e *Engine) Patterns(ctx context.Context, q PatternQuery) (Response, error) {
	minQuality := q.MinQuality
	if minQuality == 0 {
		minQuality = DefaultMinQuality
	}
	if minQuality < core.MinScore || minQuality > core.MaxScore {
		return Response{}, fmt.Errorf("%w: min quality %d", ErrInvalidQuery, minQuality)
	}
	srcs, err := e.selectSources(q.Sources)
	if err != nil {
		return Response{}, err
	}
	key, err := core.NewIntentKey(ToolPattern, q.Topic, minQuality, sourceIDs(srcs), false)
	if err != nil {
		return Response{}, err
	}
	if docs, ok := e.tiers.Intents.Get(ctx, key.String()); ok {
		return Response{Documents: docs, Cached: true, Failed: map[string]error{}}, nil
	}

	out, err := e.aggregator.SearchAll(ctx, asAggregate(srcs), key.Query)
	if err != nil {
		return Response{}, err
	}
	docs := slices.DeleteFunc(out.Documents, func(d core.Document) bool {
		return d.RelevanceScore < minQuality
	})

	resp := Response{Documents: docs, Failed: out.Failed}
	e.remember(ctx, key, resp)
	return resp, nil
}

// remember stores a complete response in the intent cache. Responses missing
// a source or degraded by recall failure are not cached, so a transient
// failure is not served for the whole intent TTL.
func (e *Engine) remember(ctx context.Context, key core.IntentKey, resp Response) {
	if len(resp.Failed) > 0 || resp.Recall.Status == recall.StatusDegraded {
		return
	}
	if err := e.tiers.Intents.Set(ctx, key.String(), resp.Documents, e.tiers.Intents.TTL()); err != nil {
		e.logger.Warn("failed to cache results", "key", key.String(), "err", err)
	}
}
