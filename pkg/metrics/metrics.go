// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal counts processed chat turns by detected intent.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_turns_total",
			Help: "Chat turns processed, by intent",
		},
		[]string{"intent"},
	)

	// HandoffsTotal counts consultant transfers.
	HandoffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_handoffs_total",
			Help: "Consultant handoffs, by source and target team",
		},
		[]string{"from", "to"},
	)

	// EmotionsTotal counts detected emotions.
	EmotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_emotions_total",
			Help: "Detected user emotions",
		},
		[]string{"emotion"},
	)

	// AnalysisDuration tracks emotion plus intent analysis time.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "concierge_analysis_duration_seconds",
			Help:    "Time spent analyzing one user message",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	// StoreOperations counts persistence calls.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_store_operations_total",
			Help: "Conversation store operations",
		},
		[]string{"backend", "op", "status"},
	)

	// StoreDuration tracks persistence latency.
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_store_duration_seconds",
			Help:    "Conversation store operation duration",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "op"},
	)

	// ActiveSessions tracks live session contexts.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "concierge_active_sessions",
			Help: "Number of live session contexts",
		},
	)

	// LLMDuration tracks LLM completion latency.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "LLM completion duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "status"},
	)

	// EventsPublished counts events sent to NATS.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_events_published_total",
			Help: "Conversation events published",
		},
		[]string{"type", "status"},
	)

	// SSEConnections tracks open event stream connections.
	SSEConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_active_connections",
			Help: "Number of active SSE connections",
		},
	)

	// NATSStreamMessages tracks messages in the event stream.
	NATSStreamMessages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nats_stream_messages",
			Help: "Number of messages in NATS stream",
		},
		[]string{"stream"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records the outcome of analyzing one turn.
func RecordTurn(intent, emotion string, analysisSeconds float64) {
	TurnsTotal.WithLabelValues(intent).Inc()
	EmotionsTotal.WithLabelValues(emotion).Inc()
	AnalysisDuration.Observe(analysisSeconds)
}

// RecordHandoff records a transfer between teams.
func RecordHandoff(from, to string) {
	if from == "" {
		from = "none"
	}
	HandoffsTotal.WithLabelValues(from, to).Inc()
}

// RecordStoreOp records a persistence call.
func RecordStoreOp(backend, op string, err error, duration float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(backend, op, status).Inc()
	StoreDuration.WithLabelValues(backend, op).Observe(duration)
}

// RecordLLM records an LLM completion.
func RecordLLM(provider string, err error, duration float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	LLMDuration.WithLabelValues(provider, status).Observe(duration)
}

// RecordEvent records a publish attempt.
func RecordEvent(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(eventType, status).Inc()
}

// IncrementSSEConnections increments the active SSE connections gauge.
func IncrementSSEConnections() {
	SSEConnections.Inc()
}

// DecrementSSEConnections decrements the active SSE connections gauge.
func DecrementSSEConnections() {
	SSEConnections.Dec()
}
