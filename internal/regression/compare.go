package regression

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/schema"
)

// metricDef maps a JSON path to a canonical metric name. Several paths can
// share a canonical name so that records from older tooling (flat fields)
// and current records (nested stats) compare under one metric. The table is
// ordered and the first path that resolves on both sides wins.
type metricDef struct {
	jsonPath      string
	canonicalName string
	higherIsWorse bool
}

var metricDefs = []metricDef{
	{"prove_time_ms", "prove_ms", true},
	{"prove_stats.mean_ms", "prove_ms", true},
	{"witness_gen_time_ms", "witness_ms", true},
	{"witness_stats.mean_ms", "witness_ms", true},
	{"verify_time_ms", "verify_ms", true},
	{"verify_stats.mean_ms", "verify_ms", true},
	{"backend_prove_time_ms", "backend_ms", true},
	{"execution_time_ms", "exec_ms", true},
	{"total_gates", "gates", true},
	{"proof_size_bytes", "proof_size", true},
	{"peak_memory_bytes", "peak_mem", true},
	{"peak_rss_mb", "peak_rss_mb", true},
	{"proving_key_size_bytes", "pk_size", false},
	{"verification_key_size_bytes", "vk_size", false},
}

// lookupNested resolves a dotted path inside a decoded JSON document and
// returns the numeric value at it.
func lookupNested(doc map[string]any, path string) (float64, bool) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return 0, false
		}
		current = next
	}
	val, ok := current[parts[len(parts)-1]].(float64)
	return val, ok
}

// circuitName extracts the circuit identity from a decoded record, falling
// back to legacy field names and finally the artifact path stem.
func circuitName(doc map[string]any) string {
	if name, ok := doc["circuit_name"].(string); ok && name != "" {
		return name
	}
	if name, ok := doc["name"].(string); ok && name != "" {
		return name
	}
	if path, ok := doc["artifact_path"].(string); ok && path != "" {
		stem := filepath.Base(path)
		return strings.TrimSuffix(stem, filepath.Ext(stem))
	}
	return "unknown"
}

// CompareDocuments compares two decoded records metric by metric. Metrics
// absent on either side are skipped silently.
func CompareDocuments(baseline, target map[string]any, thresholdPct float64) CircuitRegression {
	name := circuitName(baseline)
	if name == "unknown" {
		name = circuitName(target)
	}

	circuit := CircuitRegression{
		CircuitName: name,
		Status:      StatusOk,
	}

	seen := make(map[string]bool)
	for _, def := range metricDefs {
		if seen[def.canonicalName] {
			continue
		}
		bv, bok := lookupNested(baseline, def.jsonPath)
		tv, tok := lookupNested(target, def.jsonPath)
		if !bok || !tok {
			continue
		}
		seen[def.canonicalName] = true

		deltaAbs, deltaPct, status := ComputeDeltaStatus(bv, tv, thresholdPct, def.higherIsWorse)
		circuit.Metrics = append(circuit.Metrics, MetricDelta{
			Metric:    def.canonicalName,
			Baseline:  bv,
			Target:    tv,
			DeltaAbs:  deltaAbs,
			DeltaPct:  deltaPct,
			Threshold: thresholdPct,
			Status:    status,
		})
		if status == StatusExceededThreshold {
			circuit.Status = StatusExceededThreshold
		}
	}

	// A regressed metric dominates; otherwise any improved metric marks
	// the whole circuit improved.
	if circuit.Status != StatusExceededThreshold {
		for _, m := range circuit.Metrics {
			if m.Status == StatusImproved {
				circuit.Status = StatusImproved
				break
			}
		}
	}
	return circuit
}

// toDocument round-trips a record through JSON so path lookup sees exactly
// the serialized field names the schema defines.
func toDocument(record *schema.BenchRecord) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompareMalformedInput, "failed to serialize record", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompareMalformedInput, "failed to decode record", err)
	}
	return doc, nil
}

// CompareRecordSets aligns baseline and target records by circuit name and
// builds a finalized report. Target circuits with no baseline are reported
// with MissingBaseline status rather than failing the comparison.
func CompareRecordSets(baselineID string, baseline []*schema.BenchRecord, targetID string, target []*schema.BenchRecord, thresholdPct float64) (*RegressionReport, error) {
	if len(baseline) == 0 || len(target) == 0 {
		return nil, errors.NewComparisonInputError()
	}

	baselineDocs := make(map[string]map[string]any, len(baseline))
	for _, record := range baseline {
		doc, err := toDocument(record)
		if err != nil {
			return nil, err
		}
		baselineDocs[record.CircuitName] = doc
	}

	report := NewReport(baselineID, targetID, thresholdPct)
	for _, record := range target {
		doc, err := toDocument(record)
		if err != nil {
			return nil, err
		}

		baseDoc, ok := baselineDocs[record.CircuitName]
		if !ok {
			report.AddCircuit(CircuitRegression{
				CircuitName: record.CircuitName,
				Metrics: []MetricDelta{{
					Metric:    "all",
					Threshold: thresholdPct,
					Status:    StatusMissingBaseline,
				}},
				Status: StatusMissingBaseline,
			})
			continue
		}
		report.AddCircuit(CompareDocuments(baseDoc, doc, thresholdPct))
	}

	report.Finalize()
	return report, nil
}
