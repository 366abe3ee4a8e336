// Package regression compares benchmark record sets and produces regression
// reports suitable for CI gating and PR comments.
package regression

import (
	"time"

	"github.com/felixgeelhaar/zkbench/internal/provenance"
)

// ReportVersion is the RegressionReport schema version.
const ReportVersion uint32 = 1

// RegressionStatus classifies one metric or circuit comparison.
type RegressionStatus string

const (
	// StatusExceededThreshold means the value worsened beyond threshold.
	StatusExceededThreshold RegressionStatus = "exceeded_threshold"
	// StatusImproved means the value improved beyond threshold.
	StatusImproved RegressionStatus = "improved"
	// StatusOk means the change stayed within threshold.
	StatusOk RegressionStatus = "ok"
	// StatusMissingBaseline means no baseline record was available.
	StatusMissingBaseline RegressionStatus = "missing_baseline"
	// StatusError means the comparison itself failed.
	StatusError RegressionStatus = "error"
	// StatusSkipped means the metric was not compared.
	StatusSkipped RegressionStatus = "skipped"
)

// Emoji returns the markdown marker for a status.
func (s RegressionStatus) Emoji() string {
	switch s {
	case StatusExceededThreshold:
		return "🔴"
	case StatusImproved:
		return "🟢"
	case StatusOk:
		return "⚪"
	case StatusMissingBaseline:
		return "⚠️"
	case StatusError:
		return "❌"
	case StatusSkipped:
		return "⏭️"
	}
	return "?"
}

// Label returns the short text label for a status.
func (s RegressionStatus) Label() string {
	switch s {
	case StatusExceededThreshold:
		return "REGRESS"
	case StatusImproved:
		return "IMPROVED"
	case StatusOk:
		return "OK"
	case StatusMissingBaseline:
		return "NO_BASE"
	case StatusError:
		return "ERROR"
	case StatusSkipped:
		return "SKIP"
	}
	return "UNKNOWN"
}

// IsFailure reports whether the status should fail CI.
func (s RegressionStatus) IsFailure() bool {
	return s == StatusExceededThreshold || s == StatusError
}

// MetricDelta is the delta analysis for one metric.
type MetricDelta struct {
	Metric    string           `json:"metric"`
	Baseline  float64          `json:"baseline"`
	Target    float64          `json:"target"`
	DeltaAbs  float64          `json:"delta_abs"`
	DeltaPct  float64          `json:"delta_pct"`
	Threshold float64          `json:"threshold"`
	Status    RegressionStatus `json:"status"`
}

// CircuitRegression is the analysis for one circuit.
type CircuitRegression struct {
	CircuitName string           `json:"circuit_name"`
	Params      *uint64          `json:"params,omitempty"`
	Metrics     []MetricDelta    `json:"metrics"`
	Status      RegressionStatus `json:"status"`
}

// ReportMetadata identifies what was compared.
type ReportMetadata struct {
	BaselineID         string                 `json:"baseline_id"`
	TargetID           string                 `json:"target_id"`
	GeneratedAt        string                 `json:"generated_at"`
	ThresholdPercent   float64                `json:"threshold_percent"`
	BaselineProvenance *provenance.Provenance `json:"baseline_provenance,omitempty"`
	TargetProvenance   *provenance.Provenance `json:"target_provenance,omitempty"`
}

// ReportSummary aggregates counts across all circuits.
type ReportSummary struct {
	TotalCircuits            int `json:"total_circuits"`
	CircuitsWithRegressions  int `json:"circuits_with_regressions"`
	CircuitsWithImprovements int `json:"circuits_with_improvements"`
	TotalMetrics             int `json:"total_metrics"`
	Regressions              int `json:"regressions"`
	Improvements             int `json:"improvements"`
	Unchanged                int `json:"unchanged"`
	MissingBaselines         int `json:"missing_baselines"`
	Errors                   int `json:"errors"`
	CIExitCode               int `json:"ci_exit_code"`
}

// RegressionReport is the stable report consumed by CI and PR tooling.
type RegressionReport struct {
	Version           uint32                       `json:"version"`
	Metadata          ReportMetadata               `json:"metadata"`
	Circuits          []CircuitRegression          `json:"circuits"`
	Summary           ReportSummary                `json:"summary"`
	VersionMismatches []provenance.VersionMismatch `json:"version_mismatches,omitempty"`
}

// NewReport creates an empty report for the given comparison.
func NewReport(baselineID, targetID string, thresholdPercent float64) *RegressionReport {
	return &RegressionReport{
		Version: ReportVersion,
		Metadata: ReportMetadata{
			BaselineID:       baselineID,
			TargetID:         targetID,
			GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
			ThresholdPercent: thresholdPercent,
		},
	}
}

// AddCircuit appends one circuit's analysis and folds it into the summary.
func (r *RegressionReport) AddCircuit(circuit CircuitRegression) {
	r.Summary.TotalCircuits++

	hasRegression := false
	hasImprovement := false
	for _, m := range circuit.Metrics {
		r.Summary.TotalMetrics++
		switch m.Status {
		case StatusExceededThreshold:
			r.Summary.Regressions++
			hasRegression = true
		case StatusImproved:
			r.Summary.Improvements++
			hasImprovement = true
		case StatusOk:
			r.Summary.Unchanged++
		case StatusMissingBaseline:
			r.Summary.MissingBaselines++
		case StatusError:
			r.Summary.Errors++
		}
	}
	if hasRegression {
		r.Summary.CircuitsWithRegressions++
	}
	if hasImprovement {
		r.Summary.CircuitsWithImprovements++
	}

	r.Circuits = append(r.Circuits, circuit)
}

// Finalize computes the CI exit code from the accumulated summary.
func (r *RegressionReport) Finalize() {
	if r.Summary.Regressions > 0 || r.Summary.Errors > 0 {
		r.Summary.CIExitCode = 1
	} else {
		r.Summary.CIExitCode = 0
	}
}

// SetProvenance attaches baseline and target provenance, recording any tool
// version mismatches between them.
func (r *RegressionReport) SetProvenance(baseline, target *provenance.Provenance) {
	if baseline != nil && target != nil {
		r.VersionMismatches = provenance.CheckVersionMismatches(baseline, target)
	}
	r.Metadata.BaselineProvenance = baseline
	r.Metadata.TargetProvenance = target
}

// ComputeDeltaStatus classifies one metric change against a threshold.
// Metrics where higher is not worse are informational and always report Ok.
// A zero baseline yields a zero percentage delta.
func ComputeDeltaStatus(baseline, target, thresholdPct float64, higherIsWorse bool) (deltaAbs, deltaPct float64, status RegressionStatus) {
	deltaAbs = target - baseline
	if baseline != 0 {
		deltaPct = deltaAbs * 100.0 / baseline
	}

	if !higherIsWorse {
		return deltaAbs, deltaPct, StatusOk
	}
	switch {
	case deltaPct > thresholdPct:
		status = StatusExceededThreshold
	case deltaPct < -thresholdPct:
		status = StatusImproved
	default:
		status = StatusOk
	}
	return deltaAbs, deltaPct, status
}
