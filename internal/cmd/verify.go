package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a proof against a verification key",
	RunE:  runVerify,
}

var (
	verifyTools toolFlags
	verifyProof string
	verifyVK    string
)

func init() {
	verifyTools.register(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyProof, "proof", "", "path to the proof file")
	verifyCmd.Flags().StringVar(&verifyVK, "vk", "", "path to the verification key")
	verifyCmd.MarkFlagRequired("proof")
	verifyCmd.MarkFlagRequired("vk")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	out, err := verifyTools.buildBackend().Verify(verifyProof, verifyVK)
	if err != nil {
		return err
	}
	if !out.Success {
		return errors.New(errors.ErrCodeExecNonZeroExit,
			fmt.Sprintf("proof verification failed after %dms", out.VerifyTimeMS))
	}
	fmt.Printf("proof verified in %dms\n", out.VerifyTimeMS)
	return nil
}
