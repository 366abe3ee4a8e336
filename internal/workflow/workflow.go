// Package workflow composes a Toolchain (witness generation) and a Backend
// (prove, verify, gates) into complete benchmark runs that produce
// BenchRecord outputs compatible with the storage and comparison layers.
package workflow

import (
	"os"
	"time"

	"github.com/felixgeelhaar/zkbench/internal/backend"
	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/log"
	"github.com/felixgeelhaar/zkbench/internal/schema"
	"github.com/felixgeelhaar/zkbench/internal/toolchain"
)

// ProveInputs describes one prove workflow invocation.
type ProveInputs struct {
	// ArtifactPath is the compiled program JSON.
	ArtifactPath string
	// ProverInputs is the Prover.toml path, "Prover.toml" when empty.
	ProverInputs string
	// CircuitName names the circuit in the resulting record.
	CircuitName string
	// Timeout bounds each backend operation. Zero means no deadline.
	Timeout time.Duration
}

// NewProveInputs creates inputs with the default five minute timeout.
func NewProveInputs(artifactPath, circuitName string) ProveInputs {
	return ProveInputs{
		ArtifactPath: artifactPath,
		CircuitName:  circuitName,
		Timeout:      5 * time.Minute,
	}
}

func (p ProveInputs) proverInputs() string {
	if p.ProverInputs == "" {
		return "Prover.toml"
	}
	return p.ProverInputs
}

// GateInfoStatus reports how gate collection went in a full benchmark.
type GateInfoStatus struct {
	Kind  GateInfoStatusKind
	Error string
}

type GateInfoStatusKind int

const (
	GateInfoOk GateInfoStatusKind = iota
	GateInfoSkippedUnsupported
	GateInfoFailed
)

// VerifyStatus reports how verification went in a full benchmark.
type VerifyStatus struct {
	Kind  VerifyStatusKind
	Error string
}

type VerifyStatusKind int

const (
	VerifyOk VerifyStatusKind = iota
	VerifySkippedUnsupported
	VerifySkippedMissingArtifacts
	VerifyFailed
)

// FullBenchmarkResult carries everything a full benchmark produced.
type FullBenchmarkResult struct {
	Record         *schema.BenchRecord
	Constraints    *uint64
	ACIROpcodes    *uint64
	GateInfoStatus GateInfoStatus
	VerifySuccess  bool
	VerifyStatus   VerifyStatus
	VerifyTimeMS   *int64
	ProofPath      string
	VKPath         string
}

// ProveOnly runs a single witness-gen + prove pass and returns the record.
func ProveOnly(tc toolchain.Toolchain, be backend.Backend, inputs ProveInputs) (*schema.BenchRecord, error) {
	record := newRecord(tc, be, inputs, 0, 1)

	witness, err := tc.GenWitness(inputs.ArtifactPath, inputs.proverInputs())
	if err != nil {
		return nil, err
	}
	defer os.Remove(witness.WitnessPath)

	out, err := be.Prove(inputs.ArtifactPath, witness.WitnessPath, inputs.Timeout)
	if err != nil {
		return nil, err
	}

	witnessStats := schema.SingleSample(float64(witness.WitnessGenTimeMS))
	proveStats := schema.SingleSample(float64(out.ProveTimeMS))
	record.WitnessStats = &witnessStats
	record.ProveStats = &proveStats
	applySizes(record, out)
	applyArtifactSize(record, inputs.ArtifactPath)
	return record, nil
}

// ProveWithIterations runs warmup then measured witness-gen + prove passes.
// Warmup passes execute fully but their samples are discarded. Size and
// memory metrics come from the final pass.
func ProveWithIterations(tc toolchain.Toolchain, be backend.Backend, inputs ProveInputs, warmup, measured int) (*schema.BenchRecord, error) {
	record, _, _, err := runIterations(tc, be, inputs, warmup, measured)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FullBenchmark runs the iterated prove workflow, then collects gate info
// and verifies the last proof. Gate collection and verification are
// best-effort: an unsupported capability or a failure is reported through
// the result statuses, never as an error.
func FullBenchmark(tc toolchain.Toolchain, be backend.Backend, inputs ProveInputs, warmup, measured int) (*FullBenchmarkResult, error) {
	record, lastOut, caps, err := runIterations(tc, be, inputs, warmup, measured)
	if err != nil {
		return nil, err
	}

	result := &FullBenchmarkResult{Record: record}

	switch {
	case !caps.HasGateCount:
		result.GateInfoStatus = GateInfoStatus{Kind: GateInfoSkippedUnsupported}
	default:
		info, gerr := be.GateInfo(inputs.ArtifactPath)
		if gerr != nil {
			log.Global().WithError(gerr).Warn("gate info collection failed",
				"circuit", inputs.CircuitName)
			result.GateInfoStatus = GateInfoStatus{Kind: GateInfoFailed, Error: gerr.Error()}
		} else {
			result.GateInfoStatus = GateInfoStatus{Kind: GateInfoOk}
			gates := info.BackendGates
			result.Constraints = &gates
			result.ACIROpcodes = info.ACIROpcodes
			record.TotalGates = &gates
			record.ACIROpcodes = info.ACIROpcodes
			record.SubgroupSize = info.SubgroupSize
		}
	}

	if lastOut != nil {
		result.ProofPath = lastOut.ProofPath
		result.VKPath = lastOut.VKPath
	}

	switch {
	case !caps.CanVerify:
		result.VerifyStatus = VerifyStatus{Kind: VerifySkippedUnsupported}
	case result.ProofPath == "" || result.VKPath == "":
		result.VerifyStatus = VerifyStatus{Kind: VerifySkippedMissingArtifacts}
	default:
		vout, verr := be.Verify(result.ProofPath, result.VKPath)
		if verr != nil {
			log.Global().WithError(verr).Warn("verification failed",
				"circuit", inputs.CircuitName)
			result.VerifyStatus = VerifyStatus{Kind: VerifyFailed, Error: verr.Error()}
		} else {
			verifyStats := schema.SingleSample(float64(vout.VerifyTimeMS))
			record.VerifyStats = &verifyStats
			result.VerifyTimeMS = &vout.VerifyTimeMS
			result.VerifySuccess = vout.Success
			if vout.Success {
				result.VerifyStatus = VerifyStatus{Kind: VerifyOk}
			} else {
				result.VerifyStatus = VerifyStatus{Kind: VerifyFailed, Error: "proof verification failed"}
			}
		}
	}

	return result, nil
}

// runIterations is the shared warmup + measured loop.
func runIterations(tc toolchain.Toolchain, be backend.Backend, inputs ProveInputs, warmup, measured int) (*schema.BenchRecord, *backend.ProveOutput, backend.Capabilities, error) {
	caps := be.Capabilities()
	if measured < 1 {
		return nil, nil, caps, errors.New(errors.ErrCodeWorkflowInvalidIterations,
			"measured iterations must be at least 1")
	}

	record := newRecord(tc, be, inputs, warmup, measured)

	witnessTimes := make([]float64, 0, measured)
	proveTimes := make([]float64, 0, measured)
	var lastOut *backend.ProveOutput

	total := warmup + measured
	for i := 0; i < total; i++ {
		isWarmup := i < warmup

		witness, err := tc.GenWitness(inputs.ArtifactPath, inputs.proverInputs())
		if err != nil {
			return nil, nil, caps, err
		}

		out, err := be.Prove(inputs.ArtifactPath, witness.WitnessPath, inputs.Timeout)
		os.Remove(witness.WitnessPath)
		if err != nil {
			return nil, nil, caps, err
		}

		if !isWarmup {
			witnessTimes = append(witnessTimes, float64(witness.WitnessGenTimeMS))
			proveTimes = append(proveTimes, float64(out.ProveTimeMS))
		}
		lastOut = out
	}

	witnessStats := schema.TimingStatFromSamples(witnessTimes)
	proveStats := schema.TimingStatFromSamples(proveTimes)
	record.WitnessStats = &witnessStats
	record.ProveStats = &proveStats
	applySizes(record, lastOut)
	applyArtifactSize(record, inputs.ArtifactPath)
	return record, lastOut, caps, nil
}

func newRecord(tc toolchain.Toolchain, be backend.Backend, inputs ProveInputs, warmup, measured int) *schema.BenchRecord {
	env := schema.DetectEnvironment()
	if version, err := tc.Version(); err == nil && version != "" {
		env.NargoVersion = &version
	}

	info := schema.BackendInfo{Name: be.Name()}
	if v := be.Version(); v != "" {
		info.Version = &v
	}

	timeoutSecs := uint64(inputs.Timeout / time.Second)
	config := schema.RunConfig{
		WarmupIterations:   uint32(warmup),
		MeasuredIterations: uint32(measured),
		TimeoutSecs:        &timeoutSecs,
	}

	record := schema.NewBenchRecord(inputs.CircuitName, env, info, config)
	record.CircuitPath = inputs.ArtifactPath
	record.CLIArgs = os.Args
	return record
}

func applySizes(record *schema.BenchRecord, out *backend.ProveOutput) {
	if out == nil {
		return
	}
	record.ProofSizeBytes = out.ProofSizeBytes
	record.ProvingKeySizeBytes = out.ProvingKeySizeBytes
	record.VerificationKeySizeBytes = out.VerificationKeySizeBytes
	if out.PeakMemoryBytes != nil {
		mb := float64(*out.PeakMemoryBytes) / (1024.0 * 1024.0)
		record.PeakRSSMB = &mb
	}
}

func applyArtifactSize(record *schema.BenchRecord, artifactPath string) {
	st, err := os.Stat(artifactPath)
	if err != nil {
		return
	}
	size := uint64(st.Size())
	record.ArtifactSizeBytes = &size
}
