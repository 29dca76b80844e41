// Package retrieval issues hybrid top-k similarity queries against the
// vector index, blending dense and sparse signals by query intent.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
	"github.com/askcast/askcast/internal/metrics"
)

// Config holds retrieval tuning. The two alphas are fixed operating points
// encoding the system's two supported query styles, not per-request knobs.
type Config struct {
	TopK        int
	HybridScale bool
	SparseAlpha float64
	DenseAlpha  float64
}

// Service runs hybrid retrieval with a stale-handle recovery policy.
type Service struct {
	index Index
	cfg   Config
}

// New creates a retrieval service.
func New(index Index, cfg Config) *Service {
	return &Service{index: index, cfg: cfg}
}

// Retrieve returns up to TopK matches for the embedding pair, scaled by the
// intent label. The handle is live-checked first; a stale handle is
// reinitialized and the query retried once before escalating.
func (s *Service) Retrieve(ctx context.Context, pair domain.EmbeddingPair, label domain.Label) ([]domain.Match, error) {
	log := logger.FromContext(ctx)

	dense, sparse := pair.Dense, pair.Sparse
	if s.cfg.HybridScale {
		alpha := s.alphaFor(label)
		log.Info("Conducting hybrid similarity search",
			zap.String("label", string(label)),
			zap.Float64("alpha", alpha),
		)
		dense, sparse = hybridConvexScale(dense, sparse, alpha)
	}

	if err := s.index.Ping(ctx); err != nil {
		log.Warn("Stale index handle, reinitializing", zap.Error(err))
		metrics.RetrievalReinitsTotal.Inc()
		if err := s.index.Reinit(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
	}

	matches, err := s.index.Query(ctx, dense, sparse, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: query index: %w", domain.ErrUpstreamUnavailable, err)
	}
	return matches, nil
}

func (s *Service) alphaFor(label domain.Label) float64 {
	if label == domain.LabelSearchTerm {
		return s.cfg.SparseAlpha
	}
	return s.cfg.DenseAlpha
}
