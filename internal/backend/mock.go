package backend

import (
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

// MockConfig configures the deterministic mock backend used by tests and
// the workflow dry-run path.
type MockConfig struct {
	Name         string
	Version      string
	Capabilities Capabilities

	ProveOutput  *ProveOutput
	VerifyOutput *VerifyOutput
	GateInfo     *GateInfo

	ProveFails    bool
	VerifyFails   bool
	GateInfoFails bool
}

// NewMockConfig returns a config with full capabilities and fixed outputs.
func NewMockConfig(name string) MockConfig {
	proofSize := uint64(2144)
	vkSize := uint64(1719)
	return MockConfig{
		Name:         name,
		Version:      "0.0.0-mock",
		Capabilities: FullCapabilities(),
		ProveOutput: &ProveOutput{
			ProveTimeMS:              100,
			ProofSizeBytes:           &proofSize,
			VerificationKeySizeBytes: &vkSize,
		},
		VerifyOutput: &VerifyOutput{VerifyTimeMS: 10, Success: true},
		GateInfo:     GateInfoFromGates(1024),
	}
}

// WithProveOutput sets the fixed prove result.
func (c MockConfig) WithProveOutput(out ProveOutput) MockConfig {
	c.ProveOutput = &out
	return c
}

// WithVerifyOutput sets the fixed verify result.
func (c MockConfig) WithVerifyOutput(out VerifyOutput) MockConfig {
	c.VerifyOutput = &out
	return c
}

// WithGateInfo sets the fixed gate report.
func (c MockConfig) WithGateInfo(info GateInfo) MockConfig {
	c.GateInfo = &info
	return c
}

// WithCapabilities overrides the capability set.
func (c MockConfig) WithCapabilities(caps Capabilities) MockConfig {
	c.Capabilities = caps
	return c
}

// ProveFailing makes Prove return an error.
func (c MockConfig) ProveFailing() MockConfig {
	c.ProveFails = true
	return c
}

// VerifyFailing makes Verify return an error.
func (c MockConfig) VerifyFailing() MockConfig {
	c.VerifyFails = true
	return c
}

// GateInfoFailing makes GateInfo return an error.
func (c MockConfig) GateInfoFailing() MockConfig {
	c.GateInfoFails = true
	return c
}

// Mock is an in-process Backend that returns canned outputs and counts
// calls, so orchestration logic can be tested without external binaries.
type Mock struct {
	config MockConfig

	proveCalls    atomic.Int64
	verifyCalls   atomic.Int64
	gateInfoCalls atomic.Int64
}

// NewMock creates a mock backend from the given config.
func NewMock(config MockConfig) *Mock {
	return &Mock{config: config}
}

// DefaultMock creates a mock named "mock" with full capabilities.
func DefaultMock() *Mock {
	return NewMock(NewMockConfig("mock"))
}

// MockWithGates creates a mock whose gate report carries the given total.
func MockWithGates(gates uint64) *Mock {
	return NewMock(NewMockConfig("mock").WithGateInfo(*GateInfoFromGates(gates)))
}

func (m *Mock) Name() string    { return m.config.Name }
func (m *Mock) Version() string { return m.config.Version }

func (m *Mock) Capabilities() Capabilities { return m.config.Capabilities }

func (m *Mock) Prove(artifact, witness string, timeout time.Duration) (*ProveOutput, error) {
	m.proveCalls.Add(1)
	if !m.config.Capabilities.CanProve {
		return nil, errors.New(errors.ErrCodeBackendMissingCapability,
			"backend cannot prove")
	}
	if m.config.ProveFails {
		return nil, errors.New(errors.ErrCodeWorkflowProveFailed, "mock prove failure")
	}
	out := *m.config.ProveOutput
	return &out, nil
}

func (m *Mock) Verify(proof, vk string) (*VerifyOutput, error) {
	m.verifyCalls.Add(1)
	if !m.config.Capabilities.CanVerify {
		return nil, errors.New(errors.ErrCodeBackendMissingCapability,
			"backend cannot verify")
	}
	if m.config.VerifyFails {
		return nil, errors.New(errors.ErrCodeExecNonZeroExit, "mock verify failure")
	}
	out := *m.config.VerifyOutput
	return &out, nil
}

func (m *Mock) GateInfo(artifact string) (*GateInfo, error) {
	m.gateInfoCalls.Add(1)
	if !m.config.Capabilities.HasGateCount {
		return nil, errors.New(errors.ErrCodeBackendMissingCapability,
			"backend cannot count gates")
	}
	if m.config.GateInfoFails {
		return nil, errors.New(errors.ErrCodeExecParseFailure, "mock gate info failure")
	}
	info := *m.config.GateInfo
	return &info, nil
}

// ProveCalls reports how many times Prove was invoked.
func (m *Mock) ProveCalls() int64 { return m.proveCalls.Load() }

// VerifyCalls reports how many times Verify was invoked.
func (m *Mock) VerifyCalls() int64 { return m.verifyCalls.Load() }

// GateInfoCalls reports how many times GateInfo was invoked.
func (m *Mock) GateInfoCalls() int64 { return m.gateInfoCalls.Load() }
