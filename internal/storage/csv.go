package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/schema"
)

// CSVHeaders is the flat column layout, in deterministic order.
var CSVHeaders = []string{
	"schema_version",
	"record_id",
	"timestamp",
	"circuit_name",
	"backend_name",
	"backend_version",
	"git_sha",
	"nargo_version",
	"warmup",
	"iterations",
	"compile_mean_ms",
	"compile_stddev_ms",
	"witness_mean_ms",
	"witness_stddev_ms",
	"prove_mean_ms",
	"prove_stddev_ms",
	"verify_mean_ms",
	"verify_stddev_ms",
	"proof_size_bytes",
	"pk_size_bytes",
	"vk_size_bytes",
	"gate_count",
	"subgroup_size",
	"peak_rss_mb",
}

// CSVExporter flattens benchmark records into CSV rows.
type CSVExporter struct{}

// NewCSVExporter creates an exporter.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// Export writes records to a CSV file, creating parent directories.
func (e *CSVExporter) Export(records []*schema.BenchRecord, output string) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed,
				fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	f, err := os.Create(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to create %s", output), err)
	}
	defer f.Close()
	return e.ExportToWriter(records, f)
}

// ExportToWriter writes the header and one row per record.
func (e *CSVExporter) ExportToWriter(records []*schema.BenchRecord, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write CSV header", err)
	}
	for _, record := range records {
		if err := cw.Write(recordToRow(record)); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write CSV row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to flush CSV output", err)
	}
	return nil
}

func recordToRow(record *schema.BenchRecord) []string {
	return []string{
		strconv.FormatUint(uint64(record.SchemaVersion), 10),
		record.RecordID,
		record.Timestamp,
		record.CircuitName,
		record.Backend.Name,
		strOrEmpty(record.Backend.Version),
		strOrEmpty(record.Env.GitSHA),
		strOrEmpty(record.Env.NargoVersion),
		strconv.FormatUint(uint64(record.Config.WarmupIterations), 10),
		strconv.FormatUint(uint64(record.Config.MeasuredIterations), 10),
		statMean(record.CompileStats),
		statStddev(record.CompileStats),
		statMean(record.WitnessStats),
		statStddev(record.WitnessStats),
		statMean(record.ProveStats),
		statStddev(record.ProveStats),
		statMean(record.VerifyStats),
		statStddev(record.VerifyStats),
		uintOrEmpty(record.ProofSizeBytes),
		uintOrEmpty(record.ProvingKeySizeBytes),
		uintOrEmpty(record.VerificationKeySizeBytes),
		uintOrEmpty(record.TotalGates),
		uintOrEmpty(record.SubgroupSize),
		floatOrEmpty(record.PeakRSSMB),
	}
}

func statMean(stat *schema.TimingStat) string {
	if stat == nil {
		return ""
	}
	return strconv.FormatFloat(stat.MeanMS, 'f', -1, 64)
}

func statStddev(stat *schema.TimingStat) string {
	if stat == nil || stat.StddevMS == nil {
		return ""
	}
	return strconv.FormatFloat(*stat.StddevMS, 'f', -1, 64)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uintOrEmpty(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
