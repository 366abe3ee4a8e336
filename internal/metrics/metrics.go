// Package metrics exposes Prometheus instrumentation for benchmark runs.
// CI jobs export the registry to a textfile so the node exporter can pick
// up benchmark health alongside system metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for zkbench.
type Metrics struct {
	// Subprocess execution metrics
	SubprocessExecutions *prometheus.CounterVec
	SubprocessDuration   *prometheus.HistogramVec
	SubprocessTimeouts   *prometheus.CounterVec

	// Workflow metrics
	WorkflowRuns     *prometheus.CounterVec
	PhaseDuration    *prometheus.HistogramVec
	IterationsTotal  *prometheus.CounterVec
	VerifyFailures   *prometheus.CounterVec
	GateInfoFailures *prometheus.CounterVec

	// Comparison metrics
	Comparisons         *prometheus.CounterVec
	RegressionsDetected *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered against the given
// registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SubprocessExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_subprocess_executions_total",
				Help: "Total number of supervised subprocess executions",
			},
			[]string{"command", "success"},
		),
		SubprocessDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zkbench_subprocess_duration_seconds",
				Help:    "Subprocess wall-clock duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"command"},
		),
		SubprocessTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_subprocess_timeouts_total",
				Help: "Total number of subprocess deadline kills",
			},
			[]string{"command"},
		),
		WorkflowRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_workflow_runs_total",
				Help: "Total number of benchmark workflow runs",
			},
			[]string{"workflow", "success"},
		),
		PhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zkbench_phase_duration_seconds",
				Help:    "Benchmark phase duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"phase", "circuit"},
		),
		IterationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_iterations_total",
				Help: "Total benchmark iterations executed",
			},
			[]string{"circuit", "kind"},
		),
		VerifyFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_verify_failures_total",
				Help: "Total proof verification failures",
			},
			[]string{"circuit"},
		),
		GateInfoFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_gate_info_failures_total",
				Help: "Total gate info collection failures",
			},
			[]string{"circuit"},
		),
		Comparisons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_comparisons_total",
				Help: "Total regression comparisons performed",
			},
			[]string{"outcome"},
		),
		RegressionsDetected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_regressions_detected_total",
				Help: "Total metric regressions detected",
			},
			[]string{"metric"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkbench_errors_total",
				Help: "Total errors by structured error code",
			},
			[]string{"code"},
		),
	}
}

// RecordSubprocess records one supervised execution.
func (m *Metrics) RecordSubprocess(command string, success bool, seconds float64) {
	m.SubprocessExecutions.WithLabelValues(command, boolLabel(success)).Inc()
	m.SubprocessDuration.WithLabelValues(command).Observe(seconds)
}

// RecordTimeout counts one subprocess deadline kill.
func (m *Metrics) RecordTimeout(command string) {
	m.SubprocessTimeouts.WithLabelValues(command).Inc()
}

// RecordWorkflow records one workflow outcome.
func (m *Metrics) RecordWorkflow(workflow string, success bool) {
	m.WorkflowRuns.WithLabelValues(workflow, boolLabel(success)).Inc()
}

// RecordPhase records one phase duration sample.
func (m *Metrics) RecordPhase(phase, circuit string, seconds float64) {
	m.PhaseDuration.WithLabelValues(phase, circuit).Observe(seconds)
}

// RecordError counts a structured error by code.
func (m *Metrics) RecordError(code string) {
	m.Errors.WithLabelValues(code).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
