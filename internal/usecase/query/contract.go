package query

import (
	"context"

	"github.com/askcast/askcast/internal/domain"
)

// EmbeddingCache is the read-through cache for computed embedding pairs.
type EmbeddingCache interface {
	Lookup(ctx context.Context, q domain.Query) (domain.EmbeddingPair, bool)
	StoreAsync(q domain.Query, pair domain.EmbeddingPair)
}

// DenseEmbedder produces a dense vector for a query text.
type DenseEmbedder interface {
	EmbedDense(ctx context.Context, text string) ([]float32, error)
}

// SparseEncoder produces a sparse lexical vector for a query text.
type SparseEncoder interface {
	EncodeSparse(ctx context.Context, text string) (domain.SparseVector, error)
}

// Classifier assigns the intent label steering hybrid scaling.
type Classifier interface {
	Classify(ctx context.Context, q domain.Query) domain.Label
}

// Retriever runs the top-k similarity search.
type Retriever interface {
	Retrieve(ctx context.Context, pair domain.EmbeddingPair, label domain.Label) ([]domain.Match, error)
}

// Enricher turns raw matches into display-ready passages.
type Enricher interface {
	EnrichAll(ctx context.Context, matches []domain.Match) ([]domain.Passage, error)
}

// Answerer streams the grounded answer for a query and its passages.
type Answerer interface {
	Stream(ctx context.Context, q domain.Query, passages []domain.Passage) <-chan domain.StreamEvent
}
