package sentiment

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/sentimentd/internal/domain/history"
)

// HistoryRecorder receives every successful analysis of one session.
type HistoryRecorder interface {
	Append(e history.Entry)
}

// Metrics are the collectors Analyze records into. Nil fields are skipped.
type Metrics struct {
	Predictions *prometheus.CounterVec // by "label"
	Duration    prometheus.Observer
	EmptyInputs prometheus.Counter
}
