package storage

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/schema"
)

func testRecord(name string) *schema.BenchRecord {
	record := schema.NewBenchRecord(name, schema.EnvironmentInfo{OS: "linux"},
		schema.BackendInfo{Name: "mock"}, schema.DefaultRunConfig())
	stats := schema.TimingStatFromSamples([]float64{100, 110, 105})
	record.ProveStats = &stats
	return record
}

func TestJSONLAppendAndReadAll(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "records.jsonl"))
	assert.False(t, store.Exists())

	require.NoError(t, store.Append(testRecord("a")))
	require.NoError(t, store.Append(testRecord("b")))
	assert.True(t, store.Exists())

	records, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].CircuitName)
	assert.Equal(t, "b", records[1].CircuitName)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestJSONLReadFiltered(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "records.jsonl"))
	require.NoError(t, store.Append(testRecord("a")))
	require.NoError(t, store.Append(testRecord("b")))
	require.NoError(t, store.Append(testRecord("a")))

	records, err := store.ReadFiltered("a")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONLAppendRejectsSchemaMismatch(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "records.jsonl"))
	record := testRecord("a")
	record.SchemaVersion = 99

	err := store.Append(record)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreSchemaMismatch))
	assert.False(t, store.Exists())
}

func TestJSONLAppendCreatesParentDirs(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "nested", "dir", "records.jsonl"))
	require.NoError(t, store.Append(testRecord("a")))
	assert.True(t, store.Exists())
}

func TestJSONLReadMissingFile(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "absent.jsonl"))
	_, err := store.ReadAll()
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileNotFound))
}

func TestJSONLReadMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	store := NewJSONLStore(path)
	require.NoError(t, store.Append(testRecord("a")))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = store.ReadAll()
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreParseFailed))
}

func TestCSVExportHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewCSVExporter()
	record := testRecord("my_circuit")
	gates := uint64(1024)
	record.TotalGates = &gates

	require.NoError(t, exporter.ExportToWriter([]*schema.BenchRecord{record}, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CSVHeaders, rows[0])
	require.Len(t, rows[1], len(CSVHeaders))
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "my_circuit", rows[1][3])
	assert.Equal(t, "mock", rows[1][4])
	assert.Equal(t, "105", rows[1][14]) // prove_mean_ms
	assert.Equal(t, "1024", rows[1][21])
}

func TestCSVExportOptionalFieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	record := testRecord("c")
	record.ProveStats = nil

	require.NoError(t, NewCSVExporter().ExportToWriter([]*schema.BenchRecord{record}, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", rows[1][14])
	assert.Equal(t, "", rows[1][23])
}

func TestCSVExportToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "export.csv")
	err := NewCSVExporter().Export([]*schema.BenchRecord{testRecord("c")}, output)
	require.NoError(t, err)

	store := NewJSONLStore(output)
	assert.True(t, store.Exists())
}
