package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/zkbench/internal/runner"
)

// Metrics doubles as the runner's execution observer.
var _ runner.Observer = (*Metrics)(nil)

func TestRecordSubprocess(t *testing.T) {
	_, m := NewRegistry()

	m.RecordSubprocess("bb prove", true, 1.5)
	m.RecordSubprocess("bb prove", true, 2.0)
	m.RecordSubprocess("bb prove", false, 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubprocessExecutions.WithLabelValues("bb prove", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubprocessExecutions.WithLabelValues("bb prove", "false")))
}

func TestRecordTimeout(t *testing.T) {
	_, m := NewRegistry()
	m.RecordTimeout("bb")
	m.RecordTimeout("bb")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubprocessTimeouts.WithLabelValues("bb")))
}

func TestRecordWorkflow(t *testing.T) {
	_, m := NewRegistry()
	m.RecordWorkflow("full_benchmark", true)
	m.RecordWorkflow("full_benchmark", true)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WorkflowRuns.WithLabelValues("full_benchmark", "true")))
}

func TestRecordError(t *testing.T) {
	_, m := NewRegistry()
	m.RecordError("EXEC-002")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("EXEC-002")))
}

func TestWriteTextfile(t *testing.T) {
	reg, m := NewRegistry()
	m.RecordWorkflow("full_benchmark", true)
	m.RecordSubprocess("bb gates", true, 0.2)

	path := filepath.Join(t.TempDir(), "zkbench.prom")
	require.NoError(t, WriteTextfile(path, reg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.Contains(content, "zkbench_workflow_runs_total"))
	assert.True(t, strings.Contains(content, "zkbench_subprocess_executions_total"))
}

func TestGetDefaultInitializes(t *testing.T) {
	Reset()
	defer Reset()
	m := GetDefault()
	require.NotNil(t, m)
	assert.Same(t, m, GetDefault())
}
