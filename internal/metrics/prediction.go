package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "sentimentd"

// Prediction and session Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of completed analyses by label",
		},
		[]string{"label"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Normalize, vectorize and classify duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
	)

	EmptyInputsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_inputs_total",
			Help:      "Total number of analyses rejected for blank input",
		},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback submissions by status",
		},
		[]string{"status"}, // "accepted" / "empty"
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live sessions holding a history",
		},
	)

	VectorizerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vectorizer_cache_total",
			Help:      "Feature vector cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RemoteVectorizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_vectorizer_requests_total",
			Help:      "Requests to the remote embedding vectorizer",
		},
		[]string{"model", "status"},
	)

	RemoteVectorizerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_vectorizer_duration_seconds",
			Help:      "Remote embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)
)

var registered bool

// Register registers HTTP and prediction metrics on the default registry.
// Must be called from main; repeated calls are no-ops.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		PredictionsTotal,
		PredictionDuration,
		EmptyInputsTotal,
		FeedbackTotal,
		ActiveSessions,
		VectorizerCacheTotal,
		RemoteVectorizerRequestsTotal,
		RemoteVectorizerDuration,
	)
	registered = true
}
