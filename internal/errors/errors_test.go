package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeExecTimeout, "test error message")

	if err.Code != ErrCodeExecTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeExecTimeout, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	// Test unwrapping
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *BenchError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeExecSpawnFailure, "could not start process"),
			wantCode: "EXEC-001",
			wantMsg:  "could not start process",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			wantCode: "IO-002",
			wantMsg:  "read failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.wantCode) {
				t.Errorf("Error() = %q, want code %q", got, tt.wantCode)
			}
			if !strings.Contains(got, tt.wantMsg) {
				t.Errorf("Error() = %q, want message %q", got, tt.wantMsg)
			}
		})
	}
}

func TestSuggestionsInOutput(t *testing.T) {
	err := New(ErrCodeExecTimeout, "bb timed out").
		WithSuggestion("Increase the limit with --timeout")

	got := err.Error()
	if !strings.Contains(got, "Suggestions:") {
		t.Errorf("expected suggestions section in %q", got)
	}
	if !strings.Contains(got, "--timeout") {
		t.Errorf("expected suggestion text in %q", got)
	}
}

func TestIsCode(t *testing.T) {
	err := NewTimeoutError("bb prove", 5000)
	if !IsCode(err, ErrCodeExecTimeout) {
		t.Errorf("IsCode should match ErrCodeExecTimeout")
	}
	if IsCode(err, ErrCodeExecSpawnFailure) {
		t.Errorf("IsCode should not match a different code")
	}
	if IsCode(fmt.Errorf("plain"), ErrCodeExecTimeout) {
		t.Errorf("IsCode should be false for non-BenchError")
	}
}

func TestNewNonZeroExitError(t *testing.T) {
	err := NewNonZeroExitError("bb prove", 2, "bad witness\n")
	got := err.Error()
	if !strings.Contains(got, "exited with code 2") {
		t.Errorf("expected exit code in %q", got)
	}
	if !strings.Contains(got, "bad witness") {
		t.Errorf("expected stderr excerpt in %q", got)
	}
}

func TestNewSchemaMismatchError(t *testing.T) {
	err := NewSchemaMismatchError(99, 1)
	if err.Code != ErrCodeStoreSchemaMismatch {
		t.Errorf("expected STORE-001, got %s", err.Code)
	}
	if !strings.Contains(err.Error(), "v99") {
		t.Errorf("expected got-version in %q", err.Error())
	}
}
