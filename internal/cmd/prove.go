package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/ux"
	"github.com/felixgeelhaar/zkbench/internal/workflow"
)

var proveCmd = &cobra.Command{
	Use:   "prove <artifact>",
	Short: "Generate a proof and record timing statistics",
	Long: `Generate a witness and proof for a compiled circuit artifact,
optionally over multiple iterations, and emit a benchmark record.`,
	Args: cobra.ExactArgs(1),
	RunE: runProve,
}

var (
	proveTools       toolFlags
	proveProverFile  string
	proveCircuitName string
	proveIterations  int
	proveWarmup      int
	proveOut         string
	proveFormat      string
)

func init() {
	proveTools.register(proveCmd)
	proveCmd.Flags().StringVar(&proveProverFile, "prover", "", "path to Prover.toml (default: alongside the artifact)")
	proveCmd.Flags().StringVar(&proveCircuitName, "circuit-name", "", "circuit name for the record (default: artifact stem)")
	proveCmd.Flags().IntVar(&proveIterations, "iterations", 1, "measured iterations")
	proveCmd.Flags().IntVar(&proveWarmup, "warmup", 0, "warmup iterations (executed, not measured)")
	proveCmd.Flags().StringVar(&proveOut, "out", "", "append the record to this JSONL file")
	proveCmd.Flags().StringVar(&proveFormat, "format", "json", "output format (json, yaml)")

	rootCmd.AddCommand(proveCmd)
}

func runProve(cmd *cobra.Command, args []string) error {
	artifact := args[0]
	name := proveCircuitName
	if name == "" {
		name = artifactStem(artifact)
	}

	inputs := proveTools.proveInputs(artifact, proveProverFile, name)
	record, err := workflow.ProveWithIterations(
		proveTools.buildToolchain(), proveTools.buildBackend(),
		inputs, proveWarmup, proveIterations)
	if err != nil {
		return err
	}

	if proveOut != "" {
		if err := storage.NewJSONLStore(proveOut).Append(record); err != nil {
			return err
		}
	}

	formatter, err := ux.NewFormatter(proveFormat, &ux.FormatterOptions{Writer: os.Stdout})
	if err != nil {
		return err
	}
	return formatter.Format(record)
}

func artifactStem(artifact string) string {
	stem := filepath.Base(artifact)
	return strings.TrimSuffix(stem, filepath.Ext(stem))
}
