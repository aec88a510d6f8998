package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/feedrank/core"
)

// Source is one aggregated content source.
type Source interface {
	ID() string
	FetchDocuments(ctx context.Context) ([]core.Document, error)
	Search(ctx context.Context, query string) ([]core.Document, error)
}

// Outcome is the merged result of one aggregation pass.
type Outcome struct {
	Documents []core.Document
	Succeeded []string         // Source ids in input order
	Failed    map[string]error // Source id to failure
}

// Aggregator runs per-source operations on a bounded worker pool.
type Aggregator struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithPoolSize sets the number of sources processed concurrently.
// Default is runtime.NumCPU(), with a minimum of 4.
func WithPoolSize(size int) Option {
	return func(a *Aggregator) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// New creates an aggregator.
func New(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.Release()
			return nil, err
		}
	}
	if a.pool == nil {
		pool, err := ants.NewPool(max(runtime.NumCPU(), 4))
		if err != nil {
			return nil, err
		}
		a.pool = pool
	}
	a.logger = a.logger.With("component", "aggregator")
	return a, nil
}

// Release frees the worker pool.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// SearchAll searches every source and merges the results by descending
// relevance. Equal scores keep source order.
func (a *Aggregator) SearchAll(ctx context.Context, sources []Source, query string) (Outcome, error) {
	out, err := a.run(ctx, sources, func(ctx context.Context, s Source) ([]core.Document, error) {
		return s.Search(ctx, query)
	})
	if err != nil {
		return out, err
	}
	sort.SliceStable(out.Documents, func(i, j int) bool {
		return out.Documents[i].RelevanceScore > out.Documents[j].RelevanceScore
	})
	return out, nil
}

// FetchAll loads every source's documents, concatenated in source order.
func (a *Aggregator) FetchAll(ctx context.Context, sources []Source) (Outcome, error) {
	return a.run(ctx, sources, func(ctx context.Context, s Source) ([]core.Document, error) {
		return s.FetchDocuments(ctx)
	})
}

type slot struct {
	docs []core.Document
	err  error
}

// run applies op to every source and waits for all of them. No sources
// yields an empty outcome.
func (a *Aggregator) run(ctx context.Context, sources []Source, op func(context.Context, Source) ([]core.Document, error)) (Outcome, error) {
	slots := make([]slot, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i] = slot{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
				}
			}()
			docs, err := op(ctx, src)
			slots[i] = slot{docs: docs, err: err}
		})
		if err != nil {
			wg.Done()
			slots[i] = slot{err: fmt.Errorf("scheduling source %s: %w", src.ID(), err)}
		}
	}
	wg.Wait()

	out := Outcome{
		Documents: make([]core.Document, 0),
		Succeeded: make([]string, 0, len(sources)),
		Failed:    make(map[string]error),
	}
	seen := make(map[string]bool)
	for i, src := range sources {
		if err := slots[i].err; err != nil {
			a.logger.Warn("source failed", "source", src.ID(), "err", err)
			out.Failed[src.ID()] = err
			continue
		}
		out.Succeeded = append(out.Succeeded, src.ID())
		for _, d := range slots[i].docs {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			out.Documents = append(out.Documents, d)
		}
	}
	return out, nil
}
