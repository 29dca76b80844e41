package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askcast",
			Name:      "embedding_requests_total",
			Help:      "Total number of dense embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askcast",
			Name:      "embedding_request_duration_seconds",
			Help:      "Dense embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askcast",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ClassificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askcast",
			Name:      "classification_total",
			Help:      "Query intent classification outcomes",
		},
		[]string{"label", "status"}, // status: "ok" / "fallback"
	)

	RetrievalReinitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "askcast",
			Name:      "retrieval_index_reinits_total",
			Help:      "Vector index handle reinitializations on staleness",
		},
	)

	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askcast",
			Name:      "stream_events_total",
			Help:      "Server-sent events emitted on answer streams",
		},
		[]string{"event"},
	)
)

var pipelineRegistered bool

// RegisterPipelineMetrics registers the pipeline metrics. Must be called once
// from main.
func RegisterPipelineMetrics() {
	if pipelineRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(ClassificationTotal)
	prometheus.MustRegister(RetrievalReinitsTotal)
	prometheus.MustRegister(StreamEventsTotal)
	pipelineRegistered = true
}
