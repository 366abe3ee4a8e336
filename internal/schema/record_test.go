package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBenchRecord(t *testing.T) {
	record := NewBenchRecord("poseidon", DefaultEnvironment(), BackendInfo{Name: "barretenberg"}, DefaultRunConfig())

	assert.Equal(t, SchemaVersion, record.SchemaVersion)
	assert.Equal(t, "poseidon", record.CircuitName)
	assert.Equal(t, "barretenberg", record.Backend.Name)
	assert.NotEmpty(t, record.RecordID)
	assert.NotEmpty(t, record.Timestamp)
}

func TestRecordIDsAreUnique(t *testing.T) {
	a := NewBenchRecord("c", DefaultEnvironment(), BackendInfo{Name: "mock"}, DefaultRunConfig())
	b := NewBenchRecord("c", DefaultEnvironment(), BackendInfo{Name: "mock"}, DefaultRunConfig())

	assert.NotEqual(t, a.RecordID, b.RecordID)
}

func TestBenchRecordJSONRoundTrip(t *testing.T) {
	record := NewBenchRecord("sha256", DefaultEnvironment(), BackendInfo{Name: "barretenberg"}, RunConfig{
		WarmupIterations:   1,
		MeasuredIterations: 3,
	})
	stats := TimingStatFromSamples([]float64{100, 110, 120})
	record.ProveStats = &stats
	proofSize := uint64(2048)
	record.ProofSizeBytes = &proofSize

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded BenchRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, record.CircuitName, decoded.CircuitName)
	assert.Equal(t, record.RecordID, decoded.RecordID)
	require.NotNil(t, decoded.ProveStats)
	assert.Equal(t, uint32(3), decoded.ProveStats.Iterations)
	require.NotNil(t, decoded.ProofSizeBytes)
	assert.Equal(t, uint64(2048), *decoded.ProofSizeBytes)
}

func TestBenchRecordJSONFieldNames(t *testing.T) {
	record := NewBenchRecord("keccak", DefaultEnvironment(), BackendInfo{Name: "mock"}, DefaultRunConfig())
	gates := uint64(1024)
	record.TotalGates = &gates

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	// Field names are the v1 wire contract the comparator aliases against.
	assert.Contains(t, raw, "schema_version")
	assert.Contains(t, raw, "circuit_name")
	assert.Contains(t, raw, "total_gates")
	assert.NotContains(t, raw, "proof_size_bytes", "unset optional fields must be omitted")
}

func TestDefaultRunConfig(t *testing.T) {
	config := DefaultRunConfig()
	assert.Equal(t, uint32(1), config.WarmupIterations)
	assert.Equal(t, uint32(3), config.MeasuredIterations)
	assert.Nil(t, config.TimeoutSecs)
}

func TestDefaultEnvironmentHasOS(t *testing.T) {
	env := DefaultEnvironment()
	assert.NotEmpty(t, env.OS)
	assert.Nil(t, env.CPUModel)
}

func TestDetectEnvironmentHasOS(t *testing.T) {
	env := DetectEnvironment()
	assert.NotEmpty(t, env.OS)
}
