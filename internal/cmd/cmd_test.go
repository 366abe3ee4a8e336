package cmd

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/zkbench/internal/metrics"
	"github.com/felixgeelhaar/zkbench/internal/regression"
)

func TestArtifactStem(t *testing.T) {
	tests := []struct {
		artifact string
		want     string
	}{
		{"target/merkle_proof.json", "merkle_proof"},
		{"/abs/path/poseidon.json", "poseidon"},
		{"plain", "plain"},
		{"circuits/nested.dir/hash.acir.json", "hash.acir"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, artifactStem(tt.artifact))
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{"prove", "verify", "gates", "bench", "suite", "compare", "export", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}

func TestToolFlagsTimeout(t *testing.T) {
	f := toolFlags{timeoutSecs: 120}
	assert.Equal(t, 2*time.Minute, f.timeout())

	f.timeoutSecs = 0
	assert.Equal(t, time.Duration(0), f.timeout())
}

func TestRecordCompareMetrics(t *testing.T) {
	report := regression.NewReport("base", "target", 10)
	report.AddCircuit(regression.CircuitRegression{
		CircuitName: "a",
		Metrics: []regression.MetricDelta{
			{Metric: "prove_ms", Status: regression.StatusExceededThreshold},
			{Metric: "witness_ms", Status: regression.StatusOk},
		},
		Status: regression.StatusExceededThreshold,
	})
	report.Finalize()

	_, m := metrics.NewRegistry()
	recordCompareMetrics(m, report)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues("fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegressionsDetected.WithLabelValues("prove_ms")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RegressionsDetected.WithLabelValues("witness_ms")))
}

func TestToolFlagsProveInputs(t *testing.T) {
	f := toolFlags{timeoutSecs: 60}
	inputs := f.proveInputs("target/circ.json", "Prover.toml", "circ")

	require.Equal(t, "target/circ.json", inputs.ArtifactPath)
	assert.Equal(t, "Prover.toml", inputs.ProverInputs)
	assert.Equal(t, "circ", inputs.CircuitName)
	assert.Equal(t, time.Minute, inputs.Timeout)
}
