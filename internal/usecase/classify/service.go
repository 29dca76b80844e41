// Package classify decides whether a query reads as a question or as a
// search term, picking the retrieval blending strategy.
package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
	"github.com/askcast/askcast/internal/metrics"
)

// Service wraps the zero-shot provider with the fail-open policy.
type Service struct {
	provider Provider
}

// New creates a classification service.
func New(provider Provider) *Service {
	return &Service{provider: provider}
}

// Classify returns the query's intent label. Classification failure must
// never abort retrieval: on any provider error the service logs and returns
// domain.DefaultLabel, falling back to scaled dense vector similarity.
func (s *Service) Classify(ctx context.Context, q domain.Query) domain.Label {
	log := logger.FromContext(ctx)

	raw, err := s.provider.Classify(ctx, q.Text)
	if err != nil {
		log.Error("Unable to reach zero-shot classification endpoint", zap.Error(err))
		log.Warn("Defaulting to scaled dense vector similarity search")
		metrics.ClassificationTotal.WithLabelValues(string(domain.DefaultLabel), "fallback").Inc()
		return domain.DefaultLabel
	}

	label := domain.ParseLabel(raw)
	log.Info("Query classified",
		zap.String("query", q.Text),
		zap.String("label", string(label)),
	)
	metrics.ClassificationTotal.WithLabelValues(string(label), "ok").Inc()
	return label
}
