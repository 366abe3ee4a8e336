package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/runner"
)

// Nargo shells out to the nargo CLI for compilation and witness
// generation.
type Nargo struct {
	nargoPath string
	timeout   time.Duration
	runner    *runner.Runner
}

// NewNargo creates a toolchain using "nargo" from PATH with a five minute
// timeout per operation.
func NewNargo() *Nargo {
	return NewNargoWithPath("nargo")
}

// NewNargoWithPath creates a toolchain using a specific nargo binary.
func NewNargoWithPath(nargoPath string) *Nargo {
	if nargoPath == "" {
		nargoPath = "nargo"
	}
	return &Nargo{
		nargoPath: nargoPath,
		timeout:   5 * time.Minute,
		runner:    runner.New(runner.NoopSampler{}),
	}
}

// WithTimeout sets the per-operation timeout. Zero disables the deadline.
func (n *Nargo) WithTimeout(timeout time.Duration) *Nargo {
	n.timeout = timeout
	return n
}

// WithRunner replaces the subprocess runner, e.g. to attach an observer.
func (n *Nargo) WithRunner(r *runner.Runner) *Nargo {
	if r != nil {
		n.runner = r
	}
	return n
}

// NargoPath returns the configured binary path.
func (n *Nargo) NargoPath() string { return n.nargoPath }

func (n *Nargo) Name() string { return "nargo" }

func (n *Nargo) Version() (string, error) {
	out, err := exec.Command(n.nargoPath, "--version").Output()
	if err != nil {
		return "", errors.NewSpawnFailureError("nargo --version", err)
	}
	version := ParseNargoVersion(string(out))
	if version == "" {
		return "", errors.NewParseFailureError("nargo --version", nil)
	}
	return version, nil
}

// Compile runs `nargo compile` in the project directory and locates the
// compiled artifact under target/.
func (n *Nargo) Compile(projectDir string) (*CompileArtifacts, error) {
	cmd := exec.Command(n.nargoPath, "compile")
	cmd.Dir = projectDir

	res, err := n.runner.Run(cmd, n.timeout)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.Wrap(errors.ErrCodeToolchainCompileFailed,
			fmt.Sprintf("nargo compile failed in %s", projectDir),
			errors.NewNonZeroExitError("nargo compile", res.ExitCode, string(res.Stderr)))
	}

	artifact, err := findArtifact(filepath.Join(projectDir, "target"))
	if err != nil {
		return nil, err
	}
	return &CompileArtifacts{
		ArtifactPath:  artifact,
		CompileTimeMS: res.ElapsedMS,
	}, nil
}

// GenWitness runs `nargo execute` in the artifact's project directory and
// returns the witness nargo wrote under target/. The prover inputs file
// must be the project's Prover.toml; nargo reads it by convention.
func (n *Nargo) GenWitness(artifact, proverInputs string) (*WitnessArtifact, error) {
	// target/<name>.json implies the project root is two levels up.
	projectDir := filepath.Dir(filepath.Dir(artifact))
	witnessName := strings.TrimSuffix(filepath.Base(artifact), ".json") + "-witness"

	cmd := exec.Command(n.nargoPath, "execute", witnessName)
	cmd.Dir = projectDir

	res, err := n.runner.Run(cmd, n.timeout)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.Wrap(errors.ErrCodeToolchainWitnessFailed,
			fmt.Sprintf("nargo execute failed for %s", artifact),
			errors.NewNonZeroExitError("nargo execute", res.ExitCode, string(res.Stderr)))
	}

	witnessPath := filepath.Join(projectDir, "target", witnessName+".gz")
	if _, statErr := os.Stat(witnessPath); statErr != nil {
		return nil, errors.Wrap(errors.ErrCodeToolchainWitnessFailed,
			fmt.Sprintf("nargo execute produced no witness at %s", witnessPath), statErr)
	}
	return &WitnessArtifact{
		WitnessPath:      witnessPath,
		WitnessGenTimeMS: res.ElapsedMS,
	}, nil
}

func findArtifact(targetDir string) (string, error) {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot read target directory %s", targetDir), err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			return filepath.Join(targetDir, entry.Name()), nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound,
		fmt.Sprintf("no compiled artifact found in %s", targetDir))
}
