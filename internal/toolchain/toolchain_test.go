package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

func TestParseNargoVersion(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		output string
	}{
		{"equals format", "nargo version = 0.38.0\n", "0.38.0"},
		{"equals with extra", "nargo version = 0.38.0 (git hash abc123)", "0.38.0"},
		{"simple format", "nargo 0.38.0", "0.38.0"},
		{"bare version", "0.38.0", "0.38.0"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unknown format", "some-unknown-format", "some-unknown-format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, ParseNargoVersion(tc.input))
		})
	}
}

func TestMockToolchainDefaults(t *testing.T) {
	m := NewMockToolchain()
	assert.Equal(t, "mock-nargo", m.Name())

	version, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, "0.38.0-mock", version)

	artifacts, err := m.Compile("/fake/project")
	require.NoError(t, err)
	assert.Equal(t, int64(50), artifacts.CompileTimeMS)
	assert.Equal(t, int64(1), m.CompileCalls())

	witness, err := m.GenWitness("/artifact.json", "/Prover.toml")
	require.NoError(t, err)
	assert.Equal(t, int64(25), witness.WitnessGenTimeMS)
	assert.Equal(t, int64(1), m.WitnessCalls())
}

func TestMockToolchainVersionOverride(t *testing.T) {
	m := NewMockToolchain().WithVersion("1.0.0-test")
	version, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-test", version)
}

func TestMockToolchainFailing(t *testing.T) {
	m := NewMockToolchain().Failing()

	_, err := m.Version()
	assert.Error(t, err)

	_, err = m.Compile("/fake")
	assert.True(t, errors.IsCode(err, errors.ErrCodeToolchainCompileFailed))

	_, err = m.GenWitness("/fake", "/fake")
	assert.True(t, errors.IsCode(err, errors.ErrCodeToolchainWitnessFailed))
}

func TestNargoDefaults(t *testing.T) {
	n := NewNargo()
	assert.Equal(t, "nargo", n.Name())
	assert.Equal(t, "nargo", n.NargoPath())
}

func TestNargoVersionMissingBinary(t *testing.T) {
	n := NewNargoWithPath("/nonexistent/nargo-binary")
	_, err := n.Version()
	assert.True(t, errors.IsCode(err, errors.ErrCodeExecSpawnFailure))
}

func TestNargoCompileMissingBinary(t *testing.T) {
	n := NewNargoWithPath("/nonexistent/nargo-binary")
	_, err := n.Compile(t.TempDir())
	assert.True(t, errors.IsCode(err, errors.ErrCodeExecSpawnFailure))
}
