// Package answer drives the response lifecycle: grounding prompt, passages
// event, provider chunk relay, terminal close or error.
//
// The lifecycle is a state machine:
//
//	START -> PASSAGES_SENT -> STREAMING -> {CLOSED, ERROR}
//
// The passages event always precedes any answer chunk, and exactly one
// terminal event is emitted.
package answer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
	"github.com/askcast/askcast/internal/metrics"
)

// Config holds stream delivery settings.
type Config struct {
	// RetryMs is the client reconnect hint attached to answer chunks.
	RetryMs int
	// Pacing is the inter-chunk delay smoothing delivery for slow clients.
	Pacing time.Duration
}

// Service streams grounded answers as ordered events.
type Service struct {
	gen Generator
	cfg Config
}

// New creates an answer streamer.
func New(gen Generator, cfg Config) *Service {
	return &Service{gen: gen, cfg: cfg}
}

// Stream starts the response lifecycle and returns the event sequence. The
// channel is closed after the terminal event. Cancelling ctx stops delivery
// and tears down the provider connection.
func (s *Service) Stream(ctx context.Context, q domain.Query, passages []domain.Passage) <-chan domain.StreamEvent {
	out := make(chan domain.StreamEvent)
	go s.run(ctx, q, passages, out)
	return out
}

func (s *Service) run(ctx context.Context, q domain.Query, passages []domain.Passage, out chan<- domain.StreamEvent) {
	defer close(out)
	log := logger.FromContext(ctx)

	// PASSAGES_SENT: always first, an empty list is valid.
	if passages == nil {
		passages = []domain.Passage{}
	}
	payload, err := json.Marshal(passages)
	if err != nil {
		log.Error("Failed to serialize passages", zap.Error(err))
		s.emit(ctx, out, domain.StreamEvent{Type: domain.EventError, Data: domain.GenericRetryMessage})
		return
	}
	if !s.emit(ctx, out, domain.StreamEvent{Type: domain.EventPassages, Data: string(payload)}) {
		return
	}

	// STREAMING
	stream, err := s.gen.Open(ctx, BuildPrompt(q, passages))
	if err != nil {
		log.Error("Unable to open generation stream", zap.Error(err))
		s.emit(ctx, out, domain.StreamEvent{Type: domain.EventError, Data: domain.GenericRetryMessage})
		return
	}
	defer stream.Close()

	for {
		chunk, err := stream.Next()
		if err != nil {
			log.Error("Generation stream failed", zap.Error(err))
			s.emit(ctx, out, domain.StreamEvent{Type: domain.EventError, Data: domain.GenericRetryMessage})
			return
		}
		if chunk.Done {
			// CLOSED
			s.emit(ctx, out, domain.StreamEvent{Type: domain.EventClose})
			return
		}

		if !s.emit(ctx, out, domain.StreamEvent{
			Type:  domain.EventAnswerChunk,
			Data:  chunk.Data,
			Retry: s.cfg.RetryMs,
		}) {
			return
		}

		if s.cfg.Pacing > 0 {
			select {
			case <-time.After(s.cfg.Pacing):
			case <-ctx.Done():
				return
			}
		}
	}
}

// emit delivers one event unless the client is gone. Reports delivery.
func (s *Service) emit(ctx context.Context, out chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case out <- ev:
		metrics.StreamEventsTotal.WithLabelValues(string(ev.Type)).Inc()
		return true
	case <-ctx.Done():
		return false
	}
}
