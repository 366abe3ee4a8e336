// Package backend abstracts proving-system operations behind a capability-
// described interface. A Backend knows how to prove, verify, and count gates
// for a specific proving system; the orchestrator consults Capabilities to
// skip (not fail) unsupported steps.
package backend

import (
	"math/bits"
	"time"
)

// Capabilities declares what a backend can do.
type Capabilities struct {
	CanProve              bool `json:"can_prove"`
	CanVerify             bool `json:"can_verify"`
	CanCompile            bool `json:"can_compile"`
	HasGateCount          bool `json:"has_gate_count"`
	HasPerOpcodeBreakdown bool `json:"has_per_opcode_breakdown"`
	HasPKVKSizes          bool `json:"has_pk_vk_sizes"`
}

// FullCapabilities returns the capability set of a backend supporting every
// feature.
func FullCapabilities() Capabilities {
	return Capabilities{
		CanProve:              true,
		CanVerify:             true,
		CanCompile:            true,
		HasGateCount:          true,
		HasPerOpcodeBreakdown: true,
		HasPKVKSizes:          true,
	}
}

// GatesOnlyCapabilities returns a minimal capability set that can only count
// gates.
func GatesOnlyCapabilities() Capabilities {
	return Capabilities{HasGateCount: true}
}

// ProveOutput is the raw result of one prove call. It is owned transiently
// by the call site and folded into a BenchRecord by the orchestrator.
type ProveOutput struct {
	ProveTimeMS              int64   `json:"prove_time_ms"`
	WitnessGenTimeMS         *int64  `json:"witness_gen_time_ms,omitempty"`
	BackendProveTimeMS       *int64  `json:"backend_prove_time_ms,omitempty"`
	PeakMemoryBytes          *uint64 `json:"peak_memory_bytes,omitempty"`
	ProofSizeBytes           *uint64 `json:"proof_size_bytes,omitempty"`
	ProvingKeySizeBytes      *uint64 `json:"proving_key_size_bytes,omitempty"`
	VerificationKeySizeBytes *uint64 `json:"verification_key_size_bytes,omitempty"`
	ProofPath                string  `json:"proof_path,omitempty"`
	VKPath                   string  `json:"vk_path,omitempty"`
}

// VerifyOutput is the raw result of one verify call.
type VerifyOutput struct {
	VerifyTimeMS int64 `json:"verify_time_ms"`
	Success      bool  `json:"success"`
}

// GateInfo reports circuit gate analysis.
type GateInfo struct {
	BackendGates uint64            `json:"backend_gates"`
	SubgroupSize *uint64           `json:"subgroup_size,omitempty"`
	ACIROpcodes  *uint64           `json:"acir_opcodes,omitempty"`
	PerOpcode    map[string]uint64 `json:"per_opcode,omitempty"`
}

// GateInfoFromGates builds a GateInfo with just the total gate count,
// deriving the subgroup size.
func GateInfoFromGates(gates uint64) *GateInfo {
	return &GateInfo{
		BackendGates: gates,
		SubgroupSize: subgroupSize(gates),
	}
}

// subgroupSize is the next power of two at or above gates, nil for zero.
func subgroupSize(gates uint64) *uint64 {
	if gates == 0 {
		return nil
	}
	size := nextPowerOfTwo(gates)
	return &size
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// Backend is the unified interface for proving systems. Implementations
// that shell to an external binary route every call through the supervised
// process runner; additional proving systems are added by implementing this
// interface without touching the orchestrator.
type Backend interface {
	// Name returns the backend name (e.g. "barretenberg", "mock").
	Name() string

	// Version returns the backend version, empty when unknown.
	Version() string

	// Capabilities returns what this backend supports.
	Capabilities() Capabilities

	// Prove generates a proof for the artifact using a pre-generated
	// witness. The timeout bounds the underlying subprocess; zero means
	// no deadline.
	Prove(artifact, witness string, timeout time.Duration) (*ProveOutput, error)

	// Verify checks a proof against a verification key. Runs once, no
	// iteration and no memory sampling.
	Verify(proof, vk string) (*VerifyOutput, error)

	// GateInfo analyzes the circuit and reports gate counts.
	GateInfo(artifact string) (*GateInfo, error)
}
