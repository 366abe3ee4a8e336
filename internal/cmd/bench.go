package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/log"
	"github.com/felixgeelhaar/zkbench/internal/metrics"
	"github.com/felixgeelhaar/zkbench/internal/provenance"
	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/ux"
	"github.com/felixgeelhaar/zkbench/internal/workflow"
)

var benchCmd = &cobra.Command{
	Use:   "bench <artifact>",
	Short: "Run a full benchmark: prove, verify, gate count",
	Long: `Run the complete benchmark workflow for one circuit: iterated
witness generation and proving, followed by best-effort verification and
gate analysis. The record is printed and optionally appended to a JSONL
store.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

var (
	benchTools         toolFlags
	benchProverFile    string
	benchCircuitName   string
	benchIterations    int
	benchWarmup        int
	benchOut           string
	benchMetricsOut    string
	benchProvenanceOut string
)

func init() {
	benchTools.register(benchCmd)
	benchCmd.Flags().StringVar(&benchProverFile, "prover", "", "path to Prover.toml (default: alongside the artifact)")
	benchCmd.Flags().StringVar(&benchCircuitName, "circuit-name", "", "circuit name for the record (default: artifact stem)")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 3, "measured iterations")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 1, "warmup iterations (executed, not measured)")
	benchCmd.Flags().StringVar(&benchOut, "out", "", "append the record to this JSONL file")
	benchCmd.Flags().StringVar(&benchMetricsOut, "metrics-out", "", "write Prometheus textfile metrics here")
	benchCmd.Flags().StringVar(&benchProvenanceOut, "provenance-out", "", "write a provenance sidecar JSON here")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	artifact := args[0]
	name := benchCircuitName
	if name == "" {
		name = artifactStem(artifact)
	}

	registry, m := metrics.NewRegistry()

	inputs := benchTools.proveInputs(artifact, benchProverFile, name)
	result, err := workflow.FullBenchmark(
		benchTools.buildToolchainObserved(m), benchTools.buildBackendObserved(m),
		inputs, benchWarmup, benchIterations)
	m.RecordWorkflow("full_benchmark", err == nil)
	if err != nil {
		if benchErr, ok := err.(*errors.BenchError); ok {
			m.RecordError(string(benchErr.Code))
		}
		flushMetrics(registry)
		return err
	}

	m.IterationsTotal.WithLabelValues(name, "warmup").Add(float64(benchWarmup))
	m.IterationsTotal.WithLabelValues(name, "measured").Add(float64(benchIterations))

	record := result.Record
	if record.WitnessStats != nil {
		m.RecordPhase("witness", name, record.WitnessStats.MeanMS/1000)
	}
	if record.ProveStats != nil {
		m.RecordPhase("prove", name, record.ProveStats.MeanMS/1000)
	}
	if record.VerifyStats != nil {
		m.RecordPhase("verify", name, record.VerifyStats.MeanMS/1000)
	}
	if result.VerifyStatus.Kind == workflow.VerifyFailed {
		m.VerifyFailures.WithLabelValues(name).Inc()
	}
	if result.GateInfoStatus.Kind == workflow.GateInfoFailed {
		m.GateInfoFailures.WithLabelValues(name).Inc()
	}
	flushMetrics(registry)

	if benchOut != "" {
		if err := storage.NewJSONLStore(benchOut).Append(record); err != nil {
			return err
		}
	}

	if benchProvenanceOut != "" {
		if err := writeProvenance(benchProvenanceOut); err != nil {
			return err
		}
	}

	fmt.Print(ux.RenderBenchSummary(result))
	return nil
}

func flushMetrics(registry *prometheus.Registry) {
	if benchMetricsOut == "" {
		return
	}
	if err := metrics.WriteTextfile(benchMetricsOut, registry); err != nil {
		log.Global().WithError(err).Warn("failed to write metrics textfile",
			"path", benchMetricsOut)
	}
}

func writeProvenance(path string) error {
	prov := provenance.Collect(benchTools.backendPath)
	raw, err := json.MarshalIndent(prov, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
