package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/log"
	"github.com/felixgeelhaar/zkbench/internal/metrics"
	"github.com/felixgeelhaar/zkbench/internal/provenance"
	"github.com/felixgeelhaar/zkbench/internal/regression"
	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/ux"
)

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.jsonl> <target.jsonl>",
	Short: "Compare two record sets and gate on regressions",
	Long: `Compare baseline and target benchmark records, aligned by circuit
name, and report per-metric deltas against a threshold. The command exits
non-zero when any metric regressed beyond the threshold, making it usable
directly as a CI gate.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

var (
	compareThreshold      float64
	compareJSONOut        string
	compareMDOut          string
	compareBaselineProv   string
	compareTargetProv     string
	compareBaselineFilter string
	compareMetricsOut     string
)

func init() {
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 10.0, "regression threshold in percent")
	compareCmd.Flags().StringVar(&compareJSONOut, "json-out", "", "write the full report JSON here")
	compareCmd.Flags().StringVar(&compareMDOut, "md-out", "", "write a markdown report here (for PR comments)")
	compareCmd.Flags().StringVar(&compareBaselineProv, "baseline-provenance", "", "provenance sidecar JSON for the baseline")
	compareCmd.Flags().StringVar(&compareTargetProv, "target-provenance", "", "provenance sidecar JSON for the target")
	compareCmd.Flags().StringVar(&compareBaselineFilter, "circuit", "", "restrict the comparison to one circuit")
	compareCmd.Flags().StringVar(&compareMetricsOut, "metrics-out", "", "write Prometheus textfile metrics here")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	baselinePath, targetPath := args[0], args[1]

	baseline, err := storage.NewJSONLStore(baselinePath).ReadFiltered(compareBaselineFilter)
	if err != nil {
		return err
	}
	target, err := storage.NewJSONLStore(targetPath).ReadFiltered(compareBaselineFilter)
	if err != nil {
		return err
	}

	report, err := regression.CompareRecordSets(
		baselinePath, baseline, targetPath, target, compareThreshold)
	if err != nil {
		return err
	}

	baseProv, err := loadProvenance(compareBaselineProv)
	if err != nil {
		return err
	}
	targetProv, err := loadProvenance(compareTargetProv)
	if err != nil {
		return err
	}
	if baseProv != nil || targetProv != nil {
		report.SetProvenance(baseProv, targetProv)
	}

	if compareJSONOut != "" {
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(compareJSONOut, raw, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed,
				fmt.Sprintf("failed to write %s", compareJSONOut), err)
		}
	}
	if compareMDOut != "" {
		md := regression.RenderMarkdown(report)
		if err := os.WriteFile(compareMDOut, []byte(md), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed,
				fmt.Sprintf("failed to write %s", compareMDOut), err)
		}
	}

	if compareMetricsOut != "" {
		registry, m := metrics.NewRegistry()
		recordCompareMetrics(m, report)
		if err := metrics.WriteTextfile(compareMetricsOut, registry); err != nil {
			log.Global().WithError(err).Warn("failed to write metrics textfile",
				"path", compareMetricsOut)
		}
	}

	fmt.Print(ux.RenderCompareSummary(report))

	if report.Summary.CIExitCode != 0 {
		return errors.New(errors.ErrCodeCompareRegression,
			fmt.Sprintf("%d metric regressions detected", report.Summary.Regressions))
	}
	return nil
}

func recordCompareMetrics(m *metrics.Metrics, report *regression.RegressionReport) {
	outcome := "pass"
	if report.Summary.CIExitCode != 0 {
		outcome = "fail"
	}
	m.Comparisons.WithLabelValues(outcome).Inc()
	for _, circuit := range report.Circuits {
		for _, metric := range circuit.Metrics {
			if metric.Status == regression.StatusExceededThreshold {
				m.RegressionsDetected.WithLabelValues(metric.Metric).Inc()
			}
		}
	}
}

func loadProvenance(path string) (*provenance.Provenance, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot read provenance %s", path), err)
	}
	var prov provenance.Provenance
	if err := json.Unmarshal(raw, &prov); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompareMalformedInput,
			fmt.Sprintf("malformed provenance %s", path), err)
	}
	return &prov, nil
}
