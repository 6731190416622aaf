package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
	"lexingest/internal/metrics"
)

// Store is the vector store adapter. One collection per record kind,
// each with a named dense vector and a named sparse vector.
type Store struct {
	client *qdrant.Client
	logger *slog.Logger
}

// Options configures the qdrant connection.
type Options struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
	Logger *slog.Logger
}

func New(opts Options) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   opts.Host,
		Port:   opts.Port,
		APIKey: opts.APIKey,
		UseTLS: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Point is one record ready for upsert: deterministic id, payload and
// both vector representations.
type Point struct {
	ID      string
	Payload map[string]any
	Vectors embed.Vectors
}

// PointFromRecord derives the point for a record.
func PointFromRecord(r domain.Record, v embed.Vectors) Point {
	return Point{
		ID:      domain.PointID(r.URI()),
		Payload: r.ToPayload(),
		Vectors: v,
	}
}

// StoredPoint is a point read back from a collection.
type StoredPoint struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// Upsert writes points into the kind's collection. Re-upserting the same
// ids overwrites in place.
func (s *Store) Upsert(ctx context.Context, kind domain.Kind, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qpoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qpoints[i] = &qdrant.PointStruct{
			Id: qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				denseVectorName:  qdrant.NewVectorDense(p.Vectors.Dense),
				sparseVectorName: qdrant.NewVectorSparse(p.Vectors.Sparse.Indices, p.Vectors.Sparse.Values),
			}),
			Payload: toQdrantPayload(p.Payload),
		}
	}

	start := time.Now()
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: kind.Collection(),
		Points:         qpoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), kind.Collection(), err)
	}
	metrics.UpsertDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.DocumentsUpserted.WithLabelValues(string(kind)).Add(float64(len(points)))
	return nil
}

// Retrieve fetches points by id. Ids absent from the collection are
// silently missing from the result.
func (s *Store) Retrieve(ctx context.Context, kind domain.Kind, ids []string) ([]StoredPoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	qids := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		qids[i] = qdrant.NewID(id)
	}

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: kind.Collection(),
		Ids:            qids,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %d points from %s: %w", len(ids), kind.Collection(), err)
	}

	out := make([]StoredPoint, 0, len(points))
	for _, p := range points {
		out = append(out, StoredPoint{
			ID:      p.GetId().GetUuid(),
			Payload: fromQdrantPayload(p.GetPayload()),
		})
	}
	return out, nil
}

// QueryHybrid runs a hybrid search: dense and sparse prefetches fused
// with reciprocal rank fusion. Pagination happens inside the prefetches
// so offset+limit candidates feed the fusion stage.
func (s *Store) QueryHybrid(ctx context.Context, kind domain.Kind, v embed.Vectors, filter *qdrant.Filter, limit, offset uint64) ([]StoredPoint, error) {
	prefetchLimit := limit + offset

	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: kind.Collection(),
		Prefetch: []*qdrant.PrefetchQuery{
			{
				Query:  qdrant.NewQueryDense(v.Dense),
				Using:  qdrant.PtrOf(denseVectorName),
				Filter: filter,
				Limit:  qdrant.PtrOf(prefetchLimit),
			},
			{
				Query:  qdrant.NewQuerySparse(v.Sparse.Indices, v.Sparse.Values),
				Using:  qdrant.PtrOf(sparseVectorName),
				Filter: filter,
				Limit:  qdrant.PtrOf(prefetchLimit),
			},
		},
		Query:       qdrant.NewQueryFusion(qdrant.Fusion_RRF),
		Limit:       qdrant.PtrOf(limit),
		Offset:      qdrant.PtrOf(offset),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind.Collection(), err)
	}
	return scoredPoints(scored), nil
}

// QuerySparse runs a keyword-only search against the sparse vector.
func (s *Store) QuerySparse(ctx context.Context, kind domain.Kind, sparse embed.SparseVector, filter *qdrant.Filter, limit, offset uint64) ([]StoredPoint, error) {
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: kind.Collection(),
		Query:          qdrant.NewQuerySparse(sparse.Indices, sparse.Values),
		Using:          qdrant.PtrOf(sparseVectorName),
		Filter:         filter,
		Limit:          qdrant.PtrOf(limit),
		Offset:         qdrant.PtrOf(offset),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to keyword-query %s: %w", kind.Collection(), err)
	}
	return scoredPoints(scored), nil
}

// QueryFilter lists points matching a filter without any vector query,
// for filter-only searches and reference lookups.
func (s *Store) QueryFilter(ctx context.Context, kind domain.Kind, filter *qdrant.Filter, limit, offset uint64) ([]StoredPoint, error) {
	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: kind.Collection(),
		Filter:         filter,
		Limit:          qdrant.PtrOf(limit),
		Offset:         qdrant.PtrOf(offset),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind.Collection(), err)
	}
	return scoredPoints(scored), nil
}

// Count returns the exact number of points matching the filter.
func (s *Store) Count(ctx context.Context, kind domain.Kind, filter *qdrant.Filter) (uint64, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: kind.Collection(),
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind.Collection(), err)
	}
	return n, nil
}

// DeleteCollection drops a kind's collection entirely.
func (s *Store) DeleteCollection(ctx context.Context, kind domain.Kind) error {
	if err := s.client.DeleteCollection(ctx, kind.Collection()); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", kind.Collection(), err)
	}
	s.logger.Info("collection deleted", "collection", kind.Collection())
	return nil
}

func scoredPoints(scored []*qdrant.ScoredPoint) []StoredPoint {
	out := make([]StoredPoint, 0, len(scored))
	for _, p := range scored {
		out = append(out, StoredPoint{
			ID:      p.GetId().GetUuid(),
			Score:   p.GetScore(),
			Payload: fromQdrantPayload(p.GetPayload()),
		})
	}
	return out
}
