package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/zkbench/internal/backend"
	"github.com/felixgeelhaar/zkbench/internal/runner"
	"github.com/felixgeelhaar/zkbench/internal/toolchain"
	"github.com/felixgeelhaar/zkbench/internal/workflow"
)

// toolFlags are the subprocess settings shared by the benchmarking
// commands.
type toolFlags struct {
	backendPath string
	nargoPath   string
	timeoutSecs int
	trackMemory bool
}

func (f *toolFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.backendPath, "backend-path", "bb", "path to the bb binary")
	flags.StringVar(&f.nargoPath, "nargo-path", "nargo", "path to the nargo binary")
	flags.IntVar(&f.timeoutSecs, "timeout", 300, "per-operation timeout in seconds (0 = none)")
	flags.BoolVar(&f.trackMemory, "mem", false, "sample peak RSS of the prover subprocess")
}

func (f *toolFlags) sampler() runner.Sampler {
	if f.trackMemory {
		return runner.RSSSampler{}
	}
	return runner.NoopSampler{}
}

func (f *toolFlags) buildBackend() backend.Backend {
	return f.buildBackendObserved(nil)
}

func (f *toolFlags) buildBackendObserved(obs runner.Observer) backend.Backend {
	cfg := backend.DefaultBarretenbergConfig()
	cfg.BBPath = f.backendPath
	r := runner.New(f.sampler())
	r.Observer = obs
	return backend.NewBarretenberg(cfg, r)
}

func (f *toolFlags) buildToolchain() toolchain.Toolchain {
	return f.buildToolchainObserved(nil)
}

func (f *toolFlags) buildToolchainObserved(obs runner.Observer) toolchain.Toolchain {
	// The toolchain never needs memory sampling; only prove does.
	r := runner.New(runner.NoopSampler{})
	r.Observer = obs
	return toolchain.NewNargoWithPath(f.nargoPath).
		WithTimeout(f.timeout()).
		WithRunner(r)
}

func (f *toolFlags) timeout() time.Duration {
	return time.Duration(f.timeoutSecs) * time.Second
}

func (f *toolFlags) proveInputs(artifact, proverInputs, circuitName string) workflow.ProveInputs {
	inputs := workflow.NewProveInputs(artifact, circuitName)
	inputs.ProverInputs = proverInputs
	inputs.Timeout = f.timeout()
	return inputs
}
