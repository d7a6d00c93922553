package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "searchfields"

// Metrics holds the collectors shared by the validator and the drift detector.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Validations     *prometheus.CounterVec
	ValidationTime  prometheus.Histogram
	DriftScans      prometheus.Counter
	MissingIndices  prometheus.Counter
	MissingFields   prometheus.Gauge
	BackendFailures *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid clashes with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_validations_total",
			Help:      "The total number of mapping validations by outcome",
		}, []string{"outcome"}),
		ValidationTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mapping_validation_seconds",
			Help:      "Time spent validating a candidate mapping",
			Buckets:   prometheus.DefBuckets,
		}),
		DriftScans: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_scans_total",
			Help:      "The total number of drift scans",
		}),
		MissingIndices: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_missing_indices_total",
			Help:      "Time partitions skipped because the index does not exist",
		}),
		MissingFields: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drift_missing_fields",
			Help:      "Fields found in the index but not in the schema, as of the last scan",
		}),
		BackendFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_failures_total",
			Help:      "Backend errors by operation",
		}, []string{"op"}),
	}
}

func (m *Metrics) ObserveValidation(seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.Validations.WithLabelValues(outcome).Inc()
	m.ValidationTime.Observe(seconds)
}

func (m *Metrics) ObserveDrift(missing int) {
	if m == nil {
		return
	}
	m.DriftScans.Inc()
	m.MissingFields.Set(float64(missing))
}

func (m *Metrics) IncMissingIndex() {
	if m == nil {
		return
	}
	m.MissingIndices.Inc()
}

func (m *Metrics) IncBackendFailure(op string) {
	if m == nil {
		return
	}
	m.BackendFailures.WithLabelValues(op).Inc()
}
