package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/ux"
)

var gatesCmd = &cobra.Command{
	Use:   "gates <artifact>",
	Short: "Report circuit gate counts",
	Long: `Analyze a compiled circuit artifact with the proving backend and
report total gates, ACIR opcodes, and the derived subgroup size.`,
	Args: cobra.ExactArgs(1),
	RunE: runGates,
}

var (
	gatesTools  toolFlags
	gatesFormat string
)

func init() {
	gatesTools.register(gatesCmd)
	gatesCmd.Flags().StringVar(&gatesFormat, "format", "json", "output format (json, yaml)")

	rootCmd.AddCommand(gatesCmd)
}

func runGates(cmd *cobra.Command, args []string) error {
	info, err := gatesTools.buildBackend().GateInfo(args[0])
	if err != nil {
		return err
	}
	formatter, err := ux.NewFormatter(gatesFormat, &ux.FormatterOptions{Writer: os.Stdout})
	if err != nil {
		return err
	}
	return formatter.Format(info)
}
