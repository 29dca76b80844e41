// Package query orchestrates the full request pipeline: embedding resolution,
// intent classification, hybrid retrieval, enrichment, and answer streaming.
package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
)

// Service wires the pipeline stages together.
type Service struct {
	cache      EmbeddingCache
	embedder   DenseEmbedder
	sparse     SparseEncoder
	classifier Classifier
	retriever  Retriever
	enricher   Enricher
	answerer   Answerer
}

// New creates the pipeline orchestrator.
func New(
	cache EmbeddingCache,
	embedder DenseEmbedder,
	sparse SparseEncoder,
	classifier Classifier,
	retriever Retriever,
	enricher Enricher,
	answerer Answerer,
) *Service {
	return &Service{
		cache:      cache,
		embedder:   embedder,
		sparse:     sparse,
		classifier: classifier,
		retriever:  retriever,
		enricher:   enricher,
		answerer:   answerer,
	}
}

// Run executes the pipeline for one query. Errors returned here happen before
// any byte of the response is streamed, so callers can still fail the request
// as a whole. Once the returned channel is live the only failure signal is a
// terminal error event on the stream itself.
func (s *Service) Run(ctx context.Context, q domain.Query) (<-chan domain.StreamEvent, error) {
	if q.IsEmpty() {
		return nil, domain.ErrEmptyQuery
	}
	log := logger.FromContext(ctx)

	// Classification and embedding resolution hit independent providers,
	// so they run concurrently.
	var (
		pair  domain.EmbeddingPair
		label domain.Label
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		label = s.classifier.Classify(gctx, q)
		return nil
	})
	g.Go(func() error {
		var err error
		pair, err = s.resolveEmbeddings(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches, err := s.retriever.Retrieve(ctx, pair, label)
	if err != nil {
		return nil, err
	}
	log.Info("Retrieved candidate passages", zap.Int("count", len(matches)))

	passages, err := s.enricher.EnrichAll(ctx, matches)
	if err != nil {
		return nil, err
	}

	return s.answerer.Stream(ctx, q, passages), nil
}

// resolveEmbeddings returns the query's embedding pair, consulting the cache
// first and computing both vectors concurrently on a miss.
func (s *Service) resolveEmbeddings(ctx context.Context, q domain.Query) (domain.EmbeddingPair, error) {
	log := logger.FromContext(ctx)

	if pair, ok := s.cache.Lookup(ctx, q); ok {
		log.Info("Embedding cache hit", zap.String("key", q.CacheKey()))
		return pair, nil
	}

	var pair domain.EmbeddingPair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dense, err := s.embedder.EmbedDense(gctx, q.Text)
		if err != nil {
			return fmt.Errorf("%w: dense embedding: %w", domain.ErrUpstreamUnavailable, err)
		}
		pair.Dense = dense
		return nil
	})
	g.Go(func() error {
		sparse, err := s.sparse.EncodeSparse(gctx, q.Text)
		if err != nil {
			return fmt.Errorf("%w: sparse encoding: %w", domain.ErrUpstreamUnavailable, err)
		}
		pair.Sparse = sparse
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.EmbeddingPair{}, err
	}

	s.cache.StoreAsync(q, pair)
	return pair, nil
}
