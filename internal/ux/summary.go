package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/zkbench/internal/regression"
	"github.com/felixgeelhaar/zkbench/internal/schema"
	"github.com/felixgeelhaar/zkbench/internal/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))
	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
)

// RenderBenchSummary renders a full benchmark result for the terminal.
func RenderBenchSummary(result *workflow.FullBenchmarkResult) string {
	var out strings.Builder
	record := result.Record

	out.WriteString(titleStyle.Render(fmt.Sprintf("Benchmark: %s", record.CircuitName)))
	out.WriteString("\n\n")

	writeRow(&out, "Backend", record.Backend.Name+versionSuffix(record.Backend.Version))
	writeRow(&out, "Iterations", fmt.Sprintf("%d measured, %d warmup",
		record.Config.MeasuredIterations, record.Config.WarmupIterations))

	if record.WitnessStats != nil {
		writeRow(&out, "Witness", renderStat(record.WitnessStats))
	}
	if record.ProveStats != nil {
		writeRow(&out, "Prove", renderStat(record.ProveStats))
	}
	if record.VerifyStats != nil {
		writeRow(&out, "Verify", renderStat(record.VerifyStats))
	}
	if record.ProofSizeBytes != nil {
		writeRow(&out, "Proof size", formatBytes(*record.ProofSizeBytes))
	}
	if record.TotalGates != nil {
		gates := fmt.Sprintf("%d", *record.TotalGates)
		if record.SubgroupSize != nil {
			gates += fmt.Sprintf(" (subgroup %d)", *record.SubgroupSize)
		}
		writeRow(&out, "Gates", gates)
	}
	if record.PeakRSSMB != nil {
		writeRow(&out, "Peak RSS", fmt.Sprintf("%.1f MB", *record.PeakRSSMB))
	}

	out.WriteString("\n")
	switch result.VerifyStatus.Kind {
	case workflow.VerifyOk:
		out.WriteString(goodStyle.Render("✓ proof verified"))
	case workflow.VerifyFailed:
		out.WriteString(badStyle.Render("✗ verification failed: " + result.VerifyStatus.Error))
	case workflow.VerifySkippedUnsupported:
		out.WriteString(warnStyle.Render("verification skipped (unsupported)"))
	case workflow.VerifySkippedMissingArtifacts:
		out.WriteString(warnStyle.Render("verification skipped (no proof artifacts)"))
	}
	out.WriteString("\n")
	return out.String()
}

// RenderCompareSummary renders a regression report for the terminal.
func RenderCompareSummary(report *regression.RegressionReport) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render("Regression Report"))
	out.WriteString("\n\n")
	writeRow(&out, "Baseline", report.Metadata.BaselineID)
	writeRow(&out, "Target", report.Metadata.TargetID)
	writeRow(&out, "Threshold", fmt.Sprintf("%.1f%%", report.Metadata.ThresholdPercent))
	out.WriteString("\n")

	for _, circuit := range report.Circuits {
		out.WriteString(fmt.Sprintf("%s %s\n", circuit.Status.Emoji(), circuit.CircuitName))
		for _, m := range circuit.Metrics {
			if m.Status == regression.StatusMissingBaseline {
				out.WriteString(warnStyle.Render("    no baseline record") + "\n")
				continue
			}
			line := fmt.Sprintf("    %-12s %s -> %s (%+.1f%%) %s",
				m.Metric,
				regression.FormatValue(m.Baseline, m.Metric),
				regression.FormatValue(m.Target, m.Metric),
				m.DeltaPct,
				m.Status.Label())
			switch m.Status {
			case regression.StatusExceededThreshold:
				line = badStyle.Render(line)
			case regression.StatusImproved:
				line = goodStyle.Render(line)
			}
			out.WriteString(line + "\n")
		}
	}

	out.WriteString("\n")
	summary := fmt.Sprintf("%d circuits, %d regressions, %d improvements",
		report.Summary.TotalCircuits, report.Summary.Regressions, report.Summary.Improvements)
	if report.Summary.CIExitCode != 0 {
		out.WriteString(badStyle.Render("FAIL: " + summary))
	} else {
		out.WriteString(goodStyle.Render("PASS: " + summary))
	}
	out.WriteString("\n")
	return out.String()
}

func renderStat(stat *schema.TimingStat) string {
	s := fmt.Sprintf("%.1fms mean", stat.MeanMS)
	if stat.StddevMS != nil {
		s += fmt.Sprintf(" ±%.1fms", *stat.StddevMS)
	}
	s += fmt.Sprintf(" (min %.1f, max %.1f)", stat.MinMS, stat.MaxMS)
	return s
}

func writeRow(out *strings.Builder, label, value string) {
	out.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value))
}

func versionSuffix(v *string) string {
	if v == nil || *v == "" {
		return ""
	}
	return " " + *v
}

func formatBytes(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1f GB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1f MB", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1f KB", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
