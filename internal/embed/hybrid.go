package embed

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"lexingest/internal/domain"
)

// Vectors pairs the dense and sparse representation of one text.
type Vectors struct {
	Dense  []float32
	Sparse SparseVector
}

// VectorCache stores computed query vectors keyed by deterministic point
// id. Implemented by the vector store's embedding cache collection.
type VectorCache interface {
	GetVectors(ctx context.Context, id string) (Vectors, bool, error)
	PutVectors(ctx context.Context, id, query string, v Vectors) error
}

// HybridEmbedder produces (dense, sparse) pairs, consulting a write-through
// cache before calling the remote service.
type HybridEmbedder struct {
	dense   *DenseEmbedder
	cache   VectorCache
	workers int
	logger  *slog.Logger
}

func NewHybridEmbedder(dense *DenseEmbedder, cache VectorCache, workers int, logger *slog.Logger) *HybridEmbedder {
	if workers <= 0 {
		workers = 50
	}
	return &HybridEmbedder{dense: dense, cache: cache, workers: workers, logger: logger}
}

// Embed computes vectors for one text without cache involvement.
func (h *HybridEmbedder) Embed(ctx context.Context, text string) Vectors {
	return Vectors{
		Dense:  h.dense.Embed(ctx, text),
		Sparse: EncodeSparse(text),
	}
}

// EmbedQuery computes vectors for a search query, cache-aware. A cache hit
// returns the stored vectors bit-exact; a miss computes and writes through.
func (h *HybridEmbedder) EmbedQuery(ctx context.Context, query string) (Vectors, error) {
	id := domain.QueryCacheID(query)

	if h.cache != nil {
		cached, ok, err := h.cache.GetVectors(ctx, id)
		if err != nil {
			h.logger.Warn("embedding cache lookup failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	v := h.Embed(ctx, query)

	if h.cache != nil {
		if err := h.cache.PutVectors(ctx, id, query, v); err != nil {
			// Duplicate concurrent writes for the same query are harmless.
			h.logger.Warn("embedding cache write failed", "error", err)
		}
	}
	return v, nil
}

// EmbedBatch fans dense calls out over a bounded worker pool; sparse is
// computed locally. Output order matches input order.
func (h *HybridEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]Vectors, error) {
	out := make([]Vectors, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for i, text := range texts {
		g.Go(func() error {
			out[i] = Vectors{
				Dense:  h.dense.Embed(gctx, text),
				Sparse: EncodeSparse(text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
