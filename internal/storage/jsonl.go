// Package storage persists benchmark records as append-only JSONL files
// and exports them to flat CSV for spreadsheet analysis.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/zkbench/internal/errors"
	"github.com/felixgeelhaar/zkbench/internal/schema"
)

// JSONLStore reads and appends benchmark records, one JSON document per
// line, so runs accumulate without rewriting the file.
type JSONLStore struct {
	path string
}

// NewJSONLStore creates a store for the given path. The file is created on
// first append.
func NewJSONLStore(path string) *JSONLStore {
	return &JSONLStore{path: path}
}

// Path returns the backing file path.
func (s *JSONLStore) Path() string { return s.path }

// Exists reports whether the backing file is present.
func (s *JSONLStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Append validates the record's schema version and writes it as one line.
func (s *JSONLStore) Append(record *schema.BenchRecord) error {
	if record.SchemaVersion != schema.SchemaVersion {
		return errors.NewSchemaMismatchError(record.SchemaVersion, schema.SchemaVersion)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed,
				fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to open %s", s.path), err)
	}
	defer f.Close()

	line, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to serialize record", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to append to %s", s.path), err)
	}
	return nil
}

// ReadAll returns every record in the file.
func (s *JSONLStore) ReadAll() ([]*schema.BenchRecord, error) {
	return s.ReadFiltered("")
}

// ReadFiltered returns records, restricted to one circuit when circuitName
// is non-empty. Blank lines are skipped; a malformed line is an error.
func (s *JSONLStore) ReadFiltered(circuitName string) ([]*schema.BenchRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound,
			fmt.Sprintf("cannot open %s", s.path), err)
	}
	defer f.Close()

	var records []*schema.BenchRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record schema.BenchRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreParseFailed,
				fmt.Sprintf("malformed record at %s:%d", s.path, lineNum), err)
		}
		if circuitName != "" && record.CircuitName != circuitName {
			continue
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed,
			fmt.Sprintf("failed reading %s", s.path), err)
	}
	return records, nil
}

// Count returns the number of records in the file.
func (s *JSONLStore) Count() (int, error) {
	records, err := s.ReadAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
