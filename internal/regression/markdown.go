package regression

import (
	"fmt"
	"strings"
)

// FormatValue renders a metric value with a unit inferred from the metric
// name, keeping PR comment tables readable.
func FormatValue(value float64, metric string) string {
	switch {
	case strings.Contains(metric, "rss_mb"):
		return fmt.Sprintf("%.1f MB", value)
	case strings.Contains(metric, "size") || strings.Contains(metric, "mem"):
		switch {
		case value >= 1_000_000_000:
			return fmt.Sprintf("%.1f GB", value/1_000_000_000)
		case value >= 1_000_000:
			return fmt.Sprintf("%.1f MB", value/1_000_000)
		case value >= 1_000:
			return fmt.Sprintf("%.1f KB", value/1_000)
		default:
			return fmt.Sprintf("%.0f B", value)
		}
	case strings.Contains(metric, "ms"):
		if value >= 1000 {
			return fmt.Sprintf("%.2fs", value/1000)
		}
		return fmt.Sprintf("%.0fms", value)
	case strings.Contains(metric, "gates"):
		switch {
		case value >= 1_000_000:
			return fmt.Sprintf("%.2fM", value/1_000_000)
		case value >= 1_000:
			return fmt.Sprintf("%.1fK", value/1_000)
		default:
			return fmt.Sprintf("%.0f", value)
		}
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// RenderMarkdown renders the report as a PR comment.
func RenderMarkdown(report *RegressionReport) string {
	var out strings.Builder

	statusEmoji := "✅"
	if report.Summary.Regressions > 0 {
		statusEmoji = "❌"
	} else if report.Summary.Improvements > 0 {
		statusEmoji = "✅🎉"
	}
	fmt.Fprintf(&out, "## %s zkbench Regression Report\n\n", statusEmoji)

	generated := report.Metadata.GeneratedAt
	if len(generated) >= 19 {
		generated = strings.Replace(generated[:19], "T", " ", 1)
	}
	fmt.Fprintf(&out,
		"| | |\n|---|---|\n| **Baseline** | `%s` |\n| **Target** | `%s` |\n| **Threshold** | %.1f%% |\n| **Generated** | %s |\n\n",
		report.Metadata.BaselineID,
		report.Metadata.TargetID,
		report.Metadata.ThresholdPercent,
		generated)

	if len(report.VersionMismatches) > 0 {
		out.WriteString("### ⚠️ Tool Version Mismatches\n\n")
		out.WriteString("| Tool | Baseline | Target |\n|------|----------|--------|\n")
		for _, m := range report.VersionMismatches {
			fmt.Fprintf(&out, "| %s | %s | %s |\n",
				m.Tool, derefOr(m.BaselineVersion, "-"), derefOr(m.TargetVersion, "-"))
		}
		out.WriteString("\n")
	}

	out.WriteString("### Summary\n\n")
	fmt.Fprintf(&out,
		"| Metric | Count |\n|--------|-------|\n| Circuits | %d |\n| Regressions | %d |\n| Improvements | %d |\n| Unchanged | %d |\n\n",
		report.Summary.TotalCircuits,
		report.Summary.Regressions,
		report.Summary.Improvements,
		report.Summary.Unchanged)

	if report.Summary.Regressions > 0 {
		out.WriteString("### 🔴 Regressions\n\n")
		renderMetricTable(&out, report, StatusExceededThreshold)
		out.WriteString("\n")
	}

	if report.Summary.Improvements > 0 {
		out.WriteString("### 🟢 Improvements\n\n")
		collapse := report.Summary.Improvements > 5
		if collapse {
			out.WriteString("<details>\n<summary>Show all improvements</summary>\n\n")
		}
		renderMetricTable(&out, report, StatusImproved)
		if collapse {
			out.WriteString("\n</details>\n")
		}
		out.WriteString("\n")
	}

	if report.Summary.MissingBaselines > 0 {
		out.WriteString("### ⚠️ New Circuits (no baseline)\n\n")
		for _, circuit := range report.Circuits {
			if circuit.Status == StatusMissingBaseline {
				fmt.Fprintf(&out, "- `%s`\n", circuit.CircuitName)
			}
		}
		out.WriteString("\n")
	}

	return out.String()
}

func renderMetricTable(out *strings.Builder, report *RegressionReport, status RegressionStatus) {
	out.WriteString("| Circuit | Metric | Baseline | Target | Delta | Status |\n")
	out.WriteString("|---------|--------|----------|--------|-------|--------|\n")
	for _, circuit := range report.Circuits {
		for _, metric := range circuit.Metrics {
			if metric.Status != status {
				continue
			}
			fmt.Fprintf(out, "| %s | %s | %s | %s | %+.1f%% | %s |\n",
				circuit.CircuitName,
				metric.Metric,
				FormatValue(metric.Baseline, metric.Metric),
				FormatValue(metric.Target, metric.Metric),
				metric.DeltaPct,
				metric.Status.Emoji())
		}
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
