package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/backend"
	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/runner"
	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/suite"
	"github.com/felixgeelhaar/zkbench/internal/toolchain"
)

var suiteCmd = &cobra.Command{
	Use:   "suite <suite.yaml>",
	Short: "Benchmark every circuit in a suite definition",
	Long: `Load a YAML suite definition and run the full benchmark workflow
for each listed circuit, appending records to a JSONL store. A failing
circuit does not stop the suite; the command fails at the end if any
circuit failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuite,
}

var (
	suiteTools toolFlags
	suiteOut   string
)

func init() {
	suiteTools.register(suiteCmd)
	suiteCmd.Flags().StringVar(&suiteOut, "out", "", "append records to this JSONL file")

	rootCmd.AddCommand(suiteCmd)
}

func runSuite(cmd *cobra.Command, args []string) error {
	s, err := suite.Load(args[0])
	if err != nil {
		return err
	}

	// Suite-level binary paths win over command flags.
	backendPath := suiteTools.backendPath
	if s.BackendPath != "" {
		backendPath = s.BackendPath
	}
	nargoPath := suiteTools.nargoPath
	if s.NargoPath != "" {
		nargoPath = s.NargoPath
	}

	cfg := backend.DefaultBarretenbergConfig()
	cfg.BBPath = backendPath
	be := backend.NewBarretenberg(cfg, runner.New(suiteTools.sampler()))
	tc := toolchain.NewNargoWithPath(nargoPath).WithTimeout(s.Timeout())

	r := suite.NewRunner(tc, be)
	if suiteOut != "" {
		r.WithStore(storage.NewJSONLStore(suiteOut))
	}

	results := r.Run(s)
	failed := 0
	for _, result := range results {
		name := result.Circuit.EffectiveName()
		if result.Err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", name, result.Err)
			continue
		}
		record := result.Result.Record
		if record.ProveStats != nil {
			fmt.Printf("✓ %s: prove %.1fms mean over %d iterations\n",
				name, record.ProveStats.MeanMS, record.ProveStats.Iterations)
		} else {
			fmt.Printf("✓ %s\n", name)
		}
	}

	fmt.Printf("\n%d circuits, %d failed\n", len(results), failed)
	if failed > 0 {
		return errors.New(errors.ErrCodeWorkflowProveFailed,
			fmt.Sprintf("%d of %d circuits failed", failed, len(results)))
	}
	return nil
}
