// Package cmd wires the zkbench CLI. Each command lives in its own file
// and registers itself on the root command in init().
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "zkbench",
	Short: "Benchmark and regression-gate ZK proving pipelines",
	Long: `zkbench benchmarks zero-knowledge proving pipelines by driving the
external toolchain (nargo) and proving backend (bb) as supervised
subprocesses. It aggregates timing statistics into canonical records,
stores them as JSONL, and compares record sets to gate CI on
performance regressions.`,
	SilenceUsage: true,
}

var (
	logLevel  string
	logFormat string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(logLevel)
		cfg.Format = log.ParseFormat(logFormat)
		log.SetGlobal(log.New(cfg))
	}
}
