// Package suite loads YAML suite definitions and benchmarks every circuit
// they list, feeding results into a JSONL store.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

// Circuit is one suite entry. Per-circuit settings override suite defaults.
type Circuit struct {
	// Name identifies the circuit in records, artifact stem when empty.
	Name string `yaml:"name,omitempty"`
	// Artifact is the compiled program JSON path.
	Artifact string `yaml:"artifact"`
	// ProverInputs is the Prover.toml path, discovered when empty.
	ProverInputs string `yaml:"prover_inputs,omitempty"`
	// Iterations overrides the suite's measured iteration count.
	Iterations *int `yaml:"iterations,omitempty"`
	// Warmup overrides the suite's warmup iteration count.
	Warmup *int `yaml:"warmup,omitempty"`
}

// Suite is a benchmark suite definition.
type Suite struct {
	Circuits []Circuit `yaml:"circuits"`
	// Tasks selects what to run per circuit: "prove", "gates". The
	// default is a full benchmark covering both.
	Tasks       []string `yaml:"tasks,omitempty"`
	BackendPath string   `yaml:"backend_path,omitempty"`
	NargoPath   string   `yaml:"nargo_path,omitempty"`
	Iterations  int      `yaml:"iterations,omitempty"`
	Warmup      int      `yaml:"warmup,omitempty"`
	TimeoutSecs int      `yaml:"timeout_secs,omitempty"`
}

// Load reads and validates a suite definition.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSuiteNotFound,
			fmt.Sprintf("cannot read suite %s", path), err).
			WithSuggestion("Check the suite file path")
	}

	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSuiteInvalid,
			fmt.Sprintf("malformed suite %s", path), err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return &s, nil
}

// Validate checks structural requirements.
func (s *Suite) Validate() error {
	if len(s.Circuits) == 0 {
		return errors.New(errors.ErrCodeSuiteInvalid, "suite lists no circuits")
	}
	for i, c := range s.Circuits {
		if c.Artifact == "" {
			return errors.New(errors.ErrCodeSuiteInvalid,
				fmt.Sprintf("circuit %d has no artifact path", i))
		}
		if c.Iterations != nil && *c.Iterations < 1 {
			return errors.New(errors.ErrCodeSuiteInvalid,
				fmt.Sprintf("circuit %d: iterations must be at least 1", i))
		}
	}
	for _, task := range s.Tasks {
		if task != "prove" && task != "gates" {
			return errors.New(errors.ErrCodeSuiteInvalid,
				fmt.Sprintf("unknown task %q", task)).
				WithSuggestion("Valid tasks are \"prove\" and \"gates\"")
		}
	}
	if s.Iterations < 0 || s.Warmup < 0 {
		return errors.New(errors.ErrCodeSuiteInvalid, "iteration counts cannot be negative")
	}
	return nil
}

func (s *Suite) applyDefaults() {
	if s.Iterations == 0 {
		s.Iterations = 3
	}
	if s.TimeoutSecs == 0 {
		s.TimeoutSecs = 300
	}
	if len(s.Tasks) == 0 {
		s.Tasks = []string{"prove", "gates"}
	}
}

// Timeout returns the per-operation deadline.
func (s *Suite) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// HasTask reports whether the suite runs the named task.
func (s *Suite) HasTask(name string) bool {
	for _, t := range s.Tasks {
		if t == name {
			return true
		}
	}
	return false
}

// EffectiveName returns the circuit's record name.
func (c Circuit) EffectiveName() string {
	if c.Name != "" {
		return c.Name
	}
	stem := filepath.Base(c.Artifact)
	return strings.TrimSuffix(stem, filepath.Ext(stem))
}

// EffectiveIterations resolves the measured iteration count.
func (c Circuit) EffectiveIterations(suiteDefault int) int {
	if c.Iterations != nil {
		return *c.Iterations
	}
	return suiteDefault
}

// EffectiveWarmup resolves the warmup iteration count.
func (c Circuit) EffectiveWarmup(suiteDefault int) int {
	if c.Warmup != nil {
		return *c.Warmup
	}
	return suiteDefault
}

// ResolveProverInputs finds the Prover.toml for a circuit: the explicit
// setting, or a file alongside the artifact, or one in the project root
// above target/.
func (c Circuit) ResolveProverInputs() string {
	if c.ProverInputs != "" {
		return c.ProverInputs
	}
	dir := filepath.Dir(c.Artifact)
	candidate := filepath.Join(dir, "Prover.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	candidate = filepath.Join(filepath.Dir(dir), "Prover.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
