package suite

import (
	"github.com/felixgeelhaar/zkbench/internal/backend"
	"github.com/felixgeelhaar/zkbench/internal/log"
	"github.com/felixgeelhaar/zkbench/internal/schema"
	"github.com/felixgeelhaar/zkbench/internal/storage"
	"github.com/felixgeelhaar/zkbench/internal/toolchain"
	"github.com/felixgeelhaar/zkbench/internal/workflow"
)

// CircuitResult pairs one suite circuit with its benchmark outcome. A
// failed circuit carries Err and a nil Result; the runner continues with
// the remaining circuits.
type CircuitResult struct {
	Circuit Circuit
	Result  *workflow.FullBenchmarkResult
	Err     error
}

// Runner executes a suite against a toolchain and backend.
type Runner struct {
	Toolchain toolchain.Toolchain
	Backend   backend.Backend
	// Store receives every successful record when non-nil.
	Store *storage.JSONLStore
}

// NewRunner creates a suite runner.
func NewRunner(tc toolchain.Toolchain, be backend.Backend) *Runner {
	return &Runner{Toolchain: tc, Backend: be}
}

// WithStore attaches a JSONL store for result persistence.
func (r *Runner) WithStore(store *storage.JSONLStore) *Runner {
	r.Store = store
	return r
}

// Run benchmarks every circuit sequentially. One circuit failing does not
// stop the suite; the failure is recorded in its CircuitResult.
func (r *Runner) Run(s *Suite) []CircuitResult {
	results := make([]CircuitResult, 0, len(s.Circuits))
	for _, circuit := range s.Circuits {
		result := r.runCircuit(s, circuit)
		if result.Err != nil {
			log.Global().WithError(result.Err).Error("circuit benchmark failed",
				"circuit", circuit.EffectiveName())
		} else if r.Store != nil {
			if err := r.Store.Append(result.Result.Record); err != nil {
				result.Err = err
			}
		}
		results = append(results, result)
	}
	return results
}

// gatesDisabled hides the gate counting capability so full benchmarks
// skip gate collection when the suite did not request the gates task.
type gatesDisabled struct {
	backend.Backend
}

func (g gatesDisabled) Capabilities() backend.Capabilities {
	caps := g.Backend.Capabilities()
	caps.HasGateCount = false
	return caps
}

func (r *Runner) runCircuit(s *Suite, circuit Circuit) CircuitResult {
	be := r.Backend
	if !s.HasTask("gates") {
		be = gatesDisabled{Backend: be}
	}

	inputs := workflow.ProveInputs{
		ArtifactPath: circuit.Artifact,
		ProverInputs: circuit.ResolveProverInputs(),
		CircuitName:  circuit.EffectiveName(),
		Timeout:      s.Timeout(),
	}

	log.Global().Info("benchmarking circuit",
		"circuit", inputs.CircuitName,
		"iterations", circuit.EffectiveIterations(s.Iterations),
		"warmup", circuit.EffectiveWarmup(s.Warmup))

	result, err := workflow.FullBenchmark(r.Toolchain, be, inputs,
		circuit.EffectiveWarmup(s.Warmup), circuit.EffectiveIterations(s.Iterations))
	if err != nil {
		return CircuitResult{Circuit: circuit, Err: err}
	}
	return CircuitResult{Circuit: circuit, Result: result}
}

// Records extracts the successful records from a result set.
func Records(results []CircuitResult) []*schema.BenchRecord {
	var records []*schema.BenchRecord
	for _, r := range results {
		if r.Err == nil && r.Result != nil {
			records = append(records, r.Result.Record)
		}
	}
	return records
}
