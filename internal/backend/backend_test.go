package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

func TestGateInfoFromGates(t *testing.T) {
	info := GateInfoFromGates(17)
	assert.Equal(t, uint64(17), info.BackendGates)
	require.NotNil(t, info.SubgroupSize)
	assert.Equal(t, uint64(32), *info.SubgroupSize)
}

func TestGateInfoFromGatesExactPowerOfTwo(t *testing.T) {
	info := GateInfoFromGates(1024)
	require.NotNil(t, info.SubgroupSize)
	assert.Equal(t, uint64(1024), *info.SubgroupSize)
}

func TestGateInfoFromGatesZero(t *testing.T) {
	info := GateInfoFromGates(0)
	assert.Equal(t, uint64(0), info.BackendGates)
	assert.Nil(t, info.SubgroupSize)
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uint64]uint64{
		1:    1,
		2:    2,
		3:    4,
		17:   32,
		1024: 1024,
		1025: 2048,
	}
	for in, want := range cases {
		assert.Equal(t, want, nextPowerOfTwo(in), "nextPowerOfTwo(%d)", in)
	}
}

func TestCapabilityPresets(t *testing.T) {
	full := FullCapabilities()
	assert.True(t, full.CanProve)
	assert.True(t, full.CanVerify)
	assert.True(t, full.HasGateCount)
	assert.True(t, full.HasPKVKSizes)

	gates := GatesOnlyCapabilities()
	assert.False(t, gates.CanProve)
	assert.False(t, gates.CanVerify)
	assert.True(t, gates.HasGateCount)
}

func TestMockBackendDefaults(t *testing.T) {
	m := DefaultMock()
	assert.Equal(t, "mock", m.Name())
	assert.Equal(t, "0.0.0-mock", m.Version())
	assert.True(t, m.Capabilities().CanProve)

	out, err := m.Prove("circuit.json", "witness.gz", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.ProveTimeMS)
	assert.Equal(t, int64(1), m.ProveCalls())

	vout, err := m.Verify("proof", "vk")
	require.NoError(t, err)
	assert.True(t, vout.Success)
	assert.Equal(t, int64(1), m.VerifyCalls())

	info, err := m.GateInfo("circuit.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), info.BackendGates)
	assert.Equal(t, int64(1), m.GateInfoCalls())
}

func TestMockBackendFailures(t *testing.T) {
	m := NewMock(NewMockConfig("mock").ProveFailing().VerifyFailing().GateInfoFailing())

	_, err := m.Prove("a", "w", 0)
	assert.Error(t, err)
	_, err = m.Verify("p", "k")
	assert.Error(t, err)
	_, err = m.GateInfo("a")
	assert.Error(t, err)

	assert.Equal(t, int64(1), m.ProveCalls())
	assert.Equal(t, int64(1), m.VerifyCalls())
	assert.Equal(t, int64(1), m.GateInfoCalls())
}

func TestMockRejectsMissingCapability(t *testing.T) {
	m := NewMock(NewMockConfig("mock").WithCapabilities(GatesOnlyCapabilities()))

	_, err := m.Prove("a.json", "witness.gz", 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendMissingCapability))

	_, err = m.Verify("proof", "vk")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendMissingCapability))
}

func TestBarretenbergProveRequiresWitness(t *testing.T) {
	b := NewBarretenbergFromPath("bb")

	_, err := b.Prove("a.json", "", 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendMissingWitness))
}

func TestMockWithGates(t *testing.T) {
	m := MockWithGates(17)
	info, err := m.GateInfo("circuit.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(17), info.BackendGates)
	require.NotNil(t, info.SubgroupSize)
	assert.Equal(t, uint64(32), *info.SubgroupSize)
}

func TestBBGatesResponseParsing(t *testing.T) {
	raw := `{"functions":[{"acir_opcodes":5,"total_gates":17,"gates_per_opcode":[1,2,3,4,7]}]}`
	var resp bbGatesResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.Functions, 1)
	require.NotNil(t, resp.Functions[0].TotalGates)
	assert.Equal(t, uint64(17), *resp.Functions[0].TotalGates)
	assert.Equal(t, uint64(5), resp.Functions[0].ACIROpcodes)
	assert.Len(t, resp.Functions[0].GatesPerOpcode, 5)
}

func TestBBGatesResponseCircuitSizeAlias(t *testing.T) {
	raw := `{"functions":[{"acir_opcodes":3,"circuit_size":100}]}`
	var resp bbGatesResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.Functions, 1)
	assert.Nil(t, resp.Functions[0].TotalGates)
	require.NotNil(t, resp.Functions[0].CircuitSize)
	assert.Equal(t, uint64(100), *resp.Functions[0].CircuitSize)
}

func TestBarretenbergConfigDefaults(t *testing.T) {
	cfg := DefaultBarretenbergConfig()
	assert.Equal(t, "bb", cfg.BBPath)
	assert.Empty(t, cfg.ExtraArgs)
}
