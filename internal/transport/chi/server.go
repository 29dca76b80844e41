// Package chi exposes the HTTP API: the streaming query endpoint, the
// healthcheck, and Prometheus metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/askcast/askcast/internal/domain"
	"github.com/askcast/askcast/internal/logger"
	healthuc "github.com/askcast/askcast/internal/usecase/health"
	"github.com/askcast/askcast/internal/version"
)

// Pipeline runs the query pipeline up to the point of streaming.
type Pipeline interface {
	Run(ctx context.Context, q domain.Query) (<-chan domain.StreamEvent, error)
}

// Identity is the service self-description reported by the healthcheck.
type Identity struct {
	Title       string
	Description string
}

// Server handles the HTTP surface.
type Server struct {
	pipeline Pipeline
	health   *healthuc.Service
	identity Identity
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(pipeline Pipeline, health *healthuc.Service, identity Identity, logger *zap.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		health:   health,
		identity: identity,
		logger:   logger,
	}
}

type queryRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query handles POST /query. On success the response is a server-sent event
// stream; failures before the first byte is written are reported as plain
// JSON so the client can distinguish them from stream errors.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	q := domain.Query{Text: req.Text}
	if q.IsEmpty() {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query text is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "Streaming unsupported")
		return
	}

	events, err := s.pipeline.Run(r.Context(), q)
	if err != nil {
		s.handlePipelineError(r.Context(), w, err)
		return
	}

	setStreamHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if err := writeEvent(w, flusher, ev); err != nil {
			// Client is gone; cancelling via the request context already
			// tears the pipeline down, just drain what remains.
			log.Info("Client disconnected mid-stream", zap.Error(err))
			for range events {
			}
			return
		}
	}
}

func (s *Server) handlePipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)

	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "validation_failed", "Query text is required")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Error("Upstream dependency unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", domain.GenericRetryMessage)
	default:
		log.Error("Pipeline failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", domain.GenericRetryMessage)
	}
}

// HealthCheck handles GET /.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"title":       s.identity.Title,
		"description": s.identity.Description,
		"version":     version.Version,
		"status":      report.Status,
		"checks":      report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
