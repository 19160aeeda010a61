package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding, retrieval, and generator Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "streamevents",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "streamevents",
			Name:      "retrieval_results",
			Help:      "Number of ranked results returned per retrieval after thresholding",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		},
		[]string{"only_future"},
	)

	GeneratorStreamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "generator_streams_total",
			Help:      "Total generator streams by outcome",
		},
		[]string{"model", "outcome"}, // "completed" / "failed" / "cancelled"
	)

	GeneratorChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamevents",
			Name:      "generator_chunks_total",
			Help:      "Total text chunks streamed from the generator",
		},
		[]string{"model"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(RetrievalResults)
	prometheus.MustRegister(GeneratorStreamsTotal)
	prometheus.MustRegister(GeneratorChunksTotal)
	retrievalMetricsRegistered = true
}
