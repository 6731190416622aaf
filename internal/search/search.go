// Package search answers hybrid and filter-only queries against the
// vector store.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
	"lexingest/internal/store"
)

const defaultLimit = 10

// Options describes one search request.
type Options struct {
	// Query is the free-text query. Empty means filter-only listing.
	Query string
	// Semantic selects hybrid dense+sparse retrieval; false means a
	// keyword-only sparse query.
	Semantic bool
	// Kind selects the collection to search.
	Kind domain.Kind

	Courts           []domain.Court
	Divisions        []domain.Division
	LegislationTypes []domain.LegislationType
	YearFrom         int
	YearTo           int
	// LegislationID narrows section and note kinds to one parent act.
	LegislationID string
	// ReferenceID finds judgments citing the given document identifier.
	ReferenceID string

	Limit  uint64
	Offset uint64
}

// Result is one scored hit.
type Result struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// Searcher runs requests against the store, embedding queries through
// the shared cache-aware embedder.
type Searcher struct {
	store    *store.Store
	embedder *embed.HybridEmbedder
	logger   *slog.Logger
}

func NewSearcher(st *store.Store, embedder *embed.HybridEmbedder, logger *slog.Logger) *Searcher {
	return &Searcher{store: st, embedder: embedder, logger: logger}
}

// Search dispatches on the presence of a query: hybrid dense+sparse
// retrieval with reciprocal rank fusion when there is one, a plain
// filtered listing when there is not.
func (s *Searcher) Search(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Kind == "" {
		return nil, fmt.Errorf("search kind is required")
	}
	if opts.Limit == 0 {
		opts.Limit = defaultLimit
	}
	filter := buildFilter(opts)

	var (
		points []store.StoredPoint
		err    error
	)
	switch {
	case opts.Query == "":
		points, err = s.store.QueryFilter(ctx, opts.Kind, filter, opts.Limit, opts.Offset)
	case !opts.Semantic:
		points, err = s.store.QuerySparse(ctx, opts.Kind, embed.EncodeSparse(opts.Query), filter, opts.Limit, opts.Offset)
	default:
		var vectors embed.Vectors
		vectors, err = s.embedder.EmbedQuery(ctx, opts.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		points, err = s.store.QueryHybrid(ctx, opts.Kind, vectors, filter, opts.Limit, opts.Offset)
	}
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(points))
	for i, p := range points {
		results[i] = Result{ID: p.ID, Score: p.Score, Payload: p.Payload}
	}

	s.logger.Debug("search completed",
		"kind", opts.Kind,
		"semantic", opts.Semantic,
		"results", len(results))
	return results, nil
}

// CitingJudgments lists judgments that cite the given document, newest
// first as stored. It is a filter-only query on the reference arrays.
func (s *Searcher) CitingJudgments(ctx context.Context, referenceID string, limit, offset uint64) ([]Result, error) {
	return s.Search(ctx, Options{
		Kind:        domain.KindCaselaw,
		ReferenceID: referenceID,
		Limit:       limit,
		Offset:      offset,
	})
}
