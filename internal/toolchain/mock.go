package toolchain

import (
	"sync/atomic"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

// Mock is an in-process Toolchain returning canned outputs, for testing
// orchestration without invoking nargo.
type Mock struct {
	MockName    string
	MockVersion string

	CompileOutput *CompileArtifacts
	WitnessOutput *WitnessArtifact
	ShouldFail    bool

	compileCalls atomic.Int64
	witnessCalls atomic.Int64
}

// NewMockToolchain creates a mock with default canned outputs.
func NewMockToolchain() *Mock {
	return &Mock{
		MockName:    "mock-nargo",
		MockVersion: "0.38.0-mock",
		CompileOutput: &CompileArtifacts{
			ArtifactPath:  "/tmp/mock-artifact.json",
			CompileTimeMS: 50,
		},
		WitnessOutput: &WitnessArtifact{
			WitnessPath:      "/tmp/mock-witness.gz",
			WitnessGenTimeMS: 25,
		},
	}
}

// WithVersion overrides the reported version.
func (m *Mock) WithVersion(version string) *Mock {
	m.MockVersion = version
	return m
}

// Failing makes every operation return an error.
func (m *Mock) Failing() *Mock {
	m.ShouldFail = true
	return m
}

func (m *Mock) Name() string { return m.MockName }

func (m *Mock) Version() (string, error) {
	if m.ShouldFail {
		return "", errors.New(errors.ErrCodeBackendVersionUnknown, "mock toolchain failure")
	}
	return m.MockVersion, nil
}

func (m *Mock) Compile(projectDir string) (*CompileArtifacts, error) {
	m.compileCalls.Add(1)
	if m.ShouldFail {
		return nil, errors.New(errors.ErrCodeToolchainCompileFailed, "mock compile failure")
	}
	out := *m.CompileOutput
	return &out, nil
}

func (m *Mock) GenWitness(artifact, proverInputs string) (*WitnessArtifact, error) {
	m.witnessCalls.Add(1)
	if m.ShouldFail {
		return nil, errors.New(errors.ErrCodeToolchainWitnessFailed, "mock witness generation failure")
	}
	out := *m.WitnessOutput
	return &out, nil
}

// CompileCalls reports how many times Compile was invoked.
func (m *Mock) CompileCalls() int64 { return m.compileCalls.Load() }

// WitnessCalls reports how many times GenWitness was invoked.
func (m *Mock) WitnessCalls() int64 { return m.witnessCalls.Load() }
