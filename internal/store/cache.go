package store

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
)

// VectorCache persists computed query vectors in the embedding cache
// collection. The dense vector is the point's named vector; the sparse
// vector rides in the payload because sparse outputs are not returned
// by id lookups in a stable shape across server versions.
type VectorCache struct {
	store *Store
}

var _ embed.VectorCache = (*VectorCache)(nil)

func NewVectorCache(store *Store) *VectorCache {
	return &VectorCache{store: store}
}

func (c *VectorCache) GetVectors(ctx context.Context, id string) (embed.Vectors, bool, error) {
	points, err := c.store.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: domain.KindEmbeddingCache.Collection(),
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return embed.Vectors{}, false, fmt.Errorf("failed to read embedding cache: %w", err)
	}
	if len(points) == 0 {
		return embed.Vectors{}, false, nil
	}

	point := points[0]
	dense := point.GetVectors().GetVectors().GetVectors()[denseVectorName].GetData()
	if len(dense) != embed.Dimensions {
		return embed.Vectors{}, false, nil
	}

	payload := fromQdrantPayload(point.GetPayload())
	sparse, ok := sparseFromPayload(payload)
	if !ok {
		return embed.Vectors{}, false, nil
	}

	return embed.Vectors{Dense: dense, Sparse: sparse}, true, nil
}

func (c *VectorCache) PutVectors(ctx context.Context, id, query string, v embed.Vectors) error {
	indices := make([]any, len(v.Sparse.Indices))
	for i, idx := range v.Sparse.Indices {
		indices[i] = int64(idx)
	}
	values := make([]any, len(v.Sparse.Values))
	for i, val := range v.Sparse.Values {
		values[i] = float64(val)
	}

	_, err := c.store.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: domain.KindEmbeddingCache.Collection(),
		Points: []*qdrant.PointStruct{{
			Id: qdrant.NewID(id),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				denseVectorName: qdrant.NewVectorDense(v.Dense),
			}),
			Payload: toQdrantPayload(map[string]any{
				"query":          query,
				"sparse_indices": indices,
				"sparse_values":  values,
				"created_at":     time.Now().UTC().Format(time.RFC3339),
			}),
		}},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}
	return nil
}

func sparseFromPayload(payload map[string]any) (embed.SparseVector, bool) {
	rawIdx, okI := payload["sparse_indices"].([]any)
	rawVal, okV := payload["sparse_values"].([]any)
	if !okI || !okV || len(rawIdx) != len(rawVal) {
		return embed.SparseVector{}, false
	}

	sparse := embed.SparseVector{
		Indices: make([]uint32, len(rawIdx)),
		Values:  make([]float32, len(rawVal)),
	}
	for i := range rawIdx {
		idx, okI := rawIdx[i].(int64)
		val, okV := rawVal[i].(float64)
		if !okI || !okV {
			return embed.SparseVector{}, false
		}
		sparse.Indices[i] = uint32(idx)
		sparse.Values[i] = float32(val)
	}
	return sparse, true
}
