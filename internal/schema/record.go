package schema

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the BenchRecord schema this engine emits. Storage rejects
// records carrying any other version.
const SchemaVersion uint32 = 1

// BackendInfo describes the proving backend that produced a record.
type BackendInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
	Variant *string `json:"variant,omitempty"`
}

// RunConfig captures the iteration parameters a record was produced with.
type RunConfig struct {
	WarmupIterations   uint32  `json:"warmup_iterations"`
	MeasuredIterations uint32  `json:"measured_iterations"`
	TimeoutSecs        *uint64 `json:"timeout_secs,omitempty"`
}

// DefaultRunConfig returns the iteration parameters used when the caller
// does not override them.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		WarmupIterations:   1,
		MeasuredIterations: 3,
	}
}

// BenchRecord is the canonical benchmark record, the unified output schema
// for all benchmarks. It is created once per full benchmark invocation and
// never mutated after the orchestrator returns it.
type BenchRecord struct {
	SchemaVersion uint32 `json:"schema_version"`
	RecordID      string `json:"record_id"`
	Timestamp     string `json:"timestamp"`
	CircuitName   string `json:"circuit_name"`
	CircuitPath   string `json:"circuit_path,omitempty"`

	Env     EnvironmentInfo `json:"env"`
	Backend BackendInfo     `json:"backend"`
	Config  RunConfig       `json:"config"`

	CompileStats *TimingStat `json:"compile_stats,omitempty"`
	WitnessStats *TimingStat `json:"witness_stats,omitempty"`
	ProveStats   *TimingStat `json:"prove_stats,omitempty"`
	VerifyStats  *TimingStat `json:"verify_stats,omitempty"`

	ProofSizeBytes           *uint64 `json:"proof_size_bytes,omitempty"`
	ProvingKeySizeBytes      *uint64 `json:"proving_key_size_bytes,omitempty"`
	VerificationKeySizeBytes *uint64 `json:"verification_key_size_bytes,omitempty"`
	ArtifactSizeBytes        *uint64 `json:"artifact_size_bytes,omitempty"`

	TotalGates   *uint64 `json:"total_gates,omitempty"`
	ACIROpcodes  *uint64 `json:"acir_opcodes,omitempty"`
	SubgroupSize *uint64 `json:"subgroup_size,omitempty"`

	PeakRSSMB *float64 `json:"peak_rss_mb,omitempty"`

	CLIArgs []string `json:"cli_args,omitempty"`
}

// NewBenchRecord creates a BenchRecord with a fresh record ID and timestamp.
func NewBenchRecord(circuitName string, env EnvironmentInfo, backend BackendInfo, config RunConfig) *BenchRecord {
	return &BenchRecord{
		SchemaVersion: SchemaVersion,
		RecordID:      uuid.NewString(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CircuitName:   circuitName,
		Env:           env,
		Backend:       backend,
		Config:        config,
	}
}
