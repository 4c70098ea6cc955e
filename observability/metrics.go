package observability

import (
	"chat-store/errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RepositoryMetrics counts repository operations per entity family.
// A nil *RepositoryMetrics records nothing.
type RepositoryMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	monitor    *Monitor
}

func NewRepositoryMetrics(registerer prometheus.Registerer, monitor *Monitor) (*RepositoryMetrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat_store",
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Repository operations by family, operation and outcome.",
	}, []string{"family", "operation", "outcome"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chat_store",
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Repository operation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"family", "operation"})

	for _, collector := range []prometheus.Collector{operations, latency} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return &RepositoryMetrics{operations: operations, latency: latency, monitor: monitor}, nil
}

// Observe records one finished operation. err points at the operation's
// named return value so it can be deferred at the top of a method.
func (m *RepositoryMetrics) Observe(family, operation string, start time.Time, err *error) {
	if m == nil {
		return
	}
	var outcome error
	if err != nil {
		outcome = *err
	}
	kind := errors.Kind(outcome)
	m.operations.WithLabelValues(family, operation, kind).Inc()
	m.latency.WithLabelValues(family, operation).Observe(time.Since(start).Seconds())
	if m.monitor != nil {
		m.monitor.Record(family, operation, kind)
	}
}
