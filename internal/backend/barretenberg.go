package backend

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/runner"
)

// BarretenbergConfig holds settings for the bb subprocess adapter.
type BarretenbergConfig struct {
	// BBPath is the bb binary to invoke, "bb" resolves via PATH.
	BBPath string
	// ExtraArgs are appended to every bb invocation.
	ExtraArgs []string
	// DefaultTimeout bounds operations when the caller passes zero.
	DefaultTimeout time.Duration
}

// DefaultBarretenbergConfig returns the standard bb configuration.
func DefaultBarretenbergConfig() BarretenbergConfig {
	return BarretenbergConfig{
		BBPath:         "bb",
		DefaultTimeout: 24 * time.Hour,
	}
}

// Barretenberg shells out to the bb binary for proving, verification, and
// gate analysis. Prove runs through the supervised runner so it picks up
// timeout enforcement and optional memory sampling; verify and gates run
// unsampled.
type Barretenberg struct {
	config BarretenbergConfig
	runner *runner.Runner

	versionOnce bool
	version     string
}

// NewBarretenberg creates a bb-backed Backend.
func NewBarretenberg(config BarretenbergConfig, r *runner.Runner) *Barretenberg {
	if config.BBPath == "" {
		config.BBPath = "bb"
	}
	if r == nil {
		r = runner.New(runner.NoopSampler{})
	}
	return &Barretenberg{config: config, runner: r}
}

// NewBarretenbergFromPath creates a bb-backed Backend with default settings.
func NewBarretenbergFromPath(bbPath string) *Barretenberg {
	cfg := DefaultBarretenbergConfig()
	cfg.BBPath = bbPath
	return NewBarretenberg(cfg, nil)
}

func (b *Barretenberg) Name() string { return "barretenberg" }

func (b *Barretenberg) Version() string {
	if !b.versionOnce {
		b.version = b.detectVersion()
		b.versionOnce = true
	}
	return b.version
}

func (b *Barretenberg) detectVersion() string {
	out, err := exec.Command(b.config.BBPath, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (b *Barretenberg) Capabilities() Capabilities {
	return FullCapabilities()
}

func (b *Barretenberg) command(args ...string) *exec.Cmd {
	return exec.Command(b.config.BBPath, append(args, b.config.ExtraArgs...)...)
}

// Prove runs `bb prove -b <artifact> -w <witness> -o <tmpdir>` and probes
// the proof, vk, and pk files bb wrote into the output directory.
func (b *Barretenberg) Prove(artifact, witness string, timeout time.Duration) (*ProveOutput, error) {
	if witness == "" {
		return nil, errors.New(errors.ErrCodeBackendMissingWitness,
			"bb prove requires a witness file")
	}
	if timeout == 0 {
		timeout = b.config.DefaultTimeout
	}

	outDir, err := os.MkdirTemp("", "zkbench-bb-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create output directory", err)
	}
	defer os.RemoveAll(outDir)

	cmd := b.command("prove", "-b", artifact, "-w", witness, "-o", outDir)
	res, err := b.runner.Run(cmd, timeout)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.NewNonZeroExitError("bb prove", res.ExitCode, string(res.Stderr))
	}

	out := &ProveOutput{
		ProveTimeMS:        res.ElapsedMS,
		BackendProveTimeMS: &res.ElapsedMS,
		PeakMemoryBytes:    res.PeakMemoryBytes,
	}

	proofPath := filepath.Join(outDir, "proof")
	vkPath := filepath.Join(outDir, "vk")
	pkPath := filepath.Join(outDir, "pk")

	out.ProofSizeBytes = fileSize(proofPath)
	out.VerificationKeySizeBytes = fileSize(vkPath)
	out.ProvingKeySizeBytes = fileSize(pkPath)
	if out.ProofSizeBytes != nil {
		out.ProofPath = proofPath
	}
	if out.VerificationKeySizeBytes != nil {
		out.VKPath = vkPath
	}
	return out, nil
}

// Verify runs `bb verify -p <proof> -k <vk>` once. A verification failure
// is reported through Success, not as an error.
func (b *Barretenberg) Verify(proof, vk string) (*VerifyOutput, error) {
	cmd := b.command("verify", "-p", proof, "-k", vk)
	res, err := runner.RunOnce(cmd)
	if err != nil {
		return nil, err
	}
	return &VerifyOutput{
		VerifyTimeMS: res.ElapsedMS,
		Success:      res.ExitCode == 0,
	}, nil
}

// bbGatesResponse mirrors the JSON that `bb gates` prints on stdout.
type bbGatesResponse struct {
	Functions []bbGatesFunction `json:"functions"`
}

type bbGatesFunction struct {
	ACIROpcodes    uint64   `json:"acir_opcodes"`
	TotalGates     *uint64  `json:"total_gates"`
	CircuitSize    *uint64  `json:"circuit_size"`
	GatesPerOpcode []uint64 `json:"gates_per_opcode"`
}

// GateInfo runs `bb gates -b <artifact>` and parses the first function of
// the JSON report. Total gates come from total_gates, with circuit_size as
// the fallback name older bb releases used.
func (b *Barretenberg) GateInfo(artifact string) (*GateInfo, error) {
	cmd := b.command("gates", "-b", artifact)
	res, err := runner.RunOnce(cmd)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.NewNonZeroExitError("bb gates", res.ExitCode, string(res.Stderr))
	}

	var resp bbGatesResponse
	if err := json.Unmarshal(res.Stdout, &resp); err != nil {
		return nil, errors.NewParseFailureError("bb gates", err)
	}
	if len(resp.Functions) == 0 {
		return nil, errors.New(errors.ErrCodeExecParseFailure, "bb gates output contains no functions")
	}

	fn := resp.Functions[0]
	var total uint64
	switch {
	case fn.TotalGates != nil:
		total = *fn.TotalGates
	case fn.CircuitSize != nil:
		total = *fn.CircuitSize
	}

	info := GateInfoFromGates(total)
	opcodes := fn.ACIROpcodes
	info.ACIROpcodes = &opcodes

	if len(fn.GatesPerOpcode) > 0 {
		info.PerOpcode = make(map[string]uint64, len(fn.GatesPerOpcode))
		for i, g := range fn.GatesPerOpcode {
			info.PerOpcode["opcode_"+strconv.Itoa(i)] = g
		}
	}
	return info, nil
}

func fileSize(path string) *uint64 {
	st, err := os.Stat(path)
	if err != nil {
		return nil
	}
	size := uint64(st.Size())
	return &size
}
