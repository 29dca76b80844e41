package retrieval

import (
	"context"

	"github.com/askcast/askcast/internal/domain"
)

// Index is the vector index handle. Reinit recovers a stale handle; Query
// issues one true hybrid query with both vectors.
type Index interface {
	Ping(ctx context.Context) error
	Reinit(ctx context.Context) error
	Query(ctx context.Context, dense []float32, sparse domain.SparseVector, topK int) ([]domain.Match, error)
}
