package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/schema"
	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/ux"
)

var exportCmd = &cobra.Command{
	Use:   "export <records.jsonl>",
	Short: "Export benchmark records to CSV or JSON",
	Long: `Read a JSONL record store and export its contents in a tabular
format suitable for spreadsheets or downstream analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat  string
	exportOut     string
	exportCircuit string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format (csv, json)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (defaults to stdout)")
	exportCmd.Flags().StringVar(&exportCircuit, "circuit", "", "only export records for this circuit")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store := storage.NewJSONLStore(args[0])

	var (
		recs []*schema.BenchRecord
		err  error
	)
	if exportCircuit != "" {
		recs, err = store.ReadFiltered(exportCircuit)
	} else {
		recs, err = store.ReadAll()
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return errors.New(errors.ErrCodeCompareInputUnavailable,
			fmt.Sprintf("no records found in %s", args[0]))
	}

	switch exportFormat {
	case "csv":
		exporter := storage.NewCSVExporter()
		if exportOut != "" {
			if err := exporter.Export(recs, exportOut); err != nil {
				return err
			}
			fmt.Printf("exported %d records to %s\n", len(recs), exportOut)
			return nil
		}
		return exporter.ExportToWriter(recs, os.Stdout)
	case "json":
		w := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileWriteFailed,
					fmt.Sprintf("failed to create %s", exportOut), err)
			}
			defer f.Close()
			w = f
		}
		formatter, err := ux.NewFormatter("json", &ux.FormatterOptions{Writer: w})
		if err != nil {
			return err
		}
		return formatter.Format(recs)
	default:
		return errors.New(errors.ErrCodeCompareMalformedInput,
			fmt.Sprintf("unsupported export format: %s", exportFormat))
	}
}
