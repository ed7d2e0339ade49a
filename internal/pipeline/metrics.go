package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	Invocations  *prometheus.CounterVec
	StepFailures *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_hook_invocations_total",
				Help: "Pipeline invocations by outcome status",
			},
			[]string{"outcome"},
		),
		StepFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_hook_step_failures_total",
				Help: "Pipeline step failures by step",
			},
			[]string{"step"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "receipt_hook_step_duration_seconds",
				Help:    "Pipeline step duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
	}
}
