package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assistant pipeline Prometheus metrics.
var (
	SearchStageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raahi",
			Name:      "search_stage_total",
			Help:      "Search engine stage outcomes",
		},
		[]string{"collection", "stage", "status"}, // status: ok / degraded / skipped
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "raahi",
			Name:      "search_stage_duration_seconds",
			Help:      "Search engine stage duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"collection", "stage"},
	)

	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raahi",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raahi",
			Name:      "llm_requests_total",
			Help:      "Total number of LLM classification requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "raahi",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)

	AssistantOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raahi",
			Name:      "assistant_outcomes_total",
			Help:      "Assistant responses by final intent",
		},
		[]string{"intent"},
	)

	SpeechStreamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "raahi",
			Name:      "speech_streams_total",
			Help:      "Speech streams by outcome",
		},
		[]string{"status"},
	)
)

var assistantMetricsRegistered bool

// RegisterAssistantMetrics registers the pipeline metrics. Must be called once from main.
func RegisterAssistantMetrics() {
	if assistantMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchStageTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(GeocodeCacheTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(AssistantOutcomesTotal)
	prometheus.MustRegister(SpeechStreamsTotal)
	assistantMetricsRegistered = true
}
