package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Chat metrics
	ChatRequests       prometheus.Counter
	ChatRequestLatency prometheus.Histogram
	ChatErrors         *prometheus.CounterVec

	// LLM metrics
	LLMCalls       *prometheus.CounterVec
	LLMCallLatency *prometheus.HistogramVec

	// Itinerary metrics
	ItinerariesGenerated prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Blacklist metrics
	BlacklistFiltered prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Chat requests counter
		ChatRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "globetrotter_chat_requests_total",
			Help: "Total number of chat requests processed",
		}),

		// Chat request latency histogram
		ChatRequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "globetrotter_chat_request_duration_seconds",
			Help:    "Chat request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),

		// Chat errors by type
		ChatErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "globetrotter_chat_errors_total",
			Help: "Total number of chat errors by type",
		}, []string{"error_type"}),

		// LLM calls by provider and outcome
		LLMCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "globetrotter_llm_calls_total",
			Help: "Total number of LLM calls by provider and status",
		}, []string{"provider", "status"}), // status: "ok" or "error"

		// LLM call latency by provider
		LLMCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "globetrotter_llm_call_duration_seconds",
			Help:    "LLM call latency in seconds by provider",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),

		// Completed itinerary generations
		ItinerariesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "globetrotter_itineraries_generated_total",
			Help: "Total number of trip itineraries generated",
		}),

		// Cache hits by cache name
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "globetrotter_cache_hits_total",
			Help: "Total number of cache hits by cache",
		}, []string{"cache"}),

		// Cache misses by cache name
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "globetrotter_cache_misses_total",
			Help: "Total number of cache misses by cache",
		}, []string{"cache"}),

		// Items removed from results by blacklist filtering
		BlacklistFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "globetrotter_blacklist_filtered_total",
			Help: "Total number of items filtered out by user or admin blacklists",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordChatRequest records a chat request
func (m *Metrics) RecordChatRequest() {
	m.ChatRequests.Inc()
}

// RecordChatLatency records chat request latency
func (m *Metrics) RecordChatLatency(seconds float64) {
	m.ChatRequestLatency.Observe(seconds)
}

// RecordChatError records a chat error
func (m *Metrics) RecordChatError(errorType string) {
	m.ChatErrors.WithLabelValues(errorType).Inc()
}

// RecordLLMCall records one LLM call with its outcome and latency
func (m *Metrics) RecordLLMCall(provider, status string, seconds float64) {
	m.LLMCalls.WithLabelValues(provider, status).Inc()
	m.LLMCallLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordItineraryGenerated records a completed itinerary generation
func (m *Metrics) RecordItineraryGenerated() {
	m.ItinerariesGenerated.Inc()
}

// RecordCacheHit records a cache hit for the named cache
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss for the named cache
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMisses.WithLabelValues(cache).Inc()
}

// RecordBlacklistFiltered records n items removed by blacklist filtering
func (m *Metrics) RecordBlacklistFiltered(n int) {
	m.BlacklistFiltered.Add(float64(n))
}
