package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Subprocess execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecSpawnFailure ErrorCode = "EXEC-001"
	ErrCodeExecTimeout      ErrorCode = "EXEC-002"
	ErrCodeExecNonZeroExit  ErrorCode = "EXEC-003"
	ErrCodeExecParseFailure ErrorCode = "EXEC-004"

	// Backend/toolchain errors (BACKEND-001 to BACKEND-099)
	ErrCodeBackendMissingWitness    ErrorCode = "BACKEND-001"
	ErrCodeBackendMissingCapability ErrorCode = "BACKEND-002"
	ErrCodeBackendVersionUnknown    ErrorCode = "BACKEND-003"
	ErrCodeToolchainCompileFailed   ErrorCode = "BACKEND-004"
	ErrCodeToolchainWitnessFailed   ErrorCode = "BACKEND-005"

	// Workflow errors (WORKFLOW-001 to WORKFLOW-099)
	ErrCodeWorkflowInvalidIterations ErrorCode = "WORKFLOW-001"
	ErrCodeWorkflowProveFailed       ErrorCode = "WORKFLOW-002"

	// Comparison errors (COMPARE-001 to COMPARE-099)
	ErrCodeCompareInputUnavailable ErrorCode = "COMPARE-001"
	ErrCodeCompareMalformedInput   ErrorCode = "COMPARE-002"
	ErrCodeCompareRegression       ErrorCode = "COMPARE-003"

	// Storage errors (STORE-001 to STORE-099)
	ErrCodeStoreSchemaMismatch ErrorCode = "STORE-001"
	ErrCodeStoreParseFailed    ErrorCode = "STORE-002"

	// Suite configuration errors (SUITE-001 to SUITE-099)
	ErrCodeSuiteNotFound ErrorCode = "SUITE-001"
	ErrCodeSuiteInvalid  ErrorCode = "SUITE-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// BenchError represents an enhanced error with code, suggestions, and documentation
type BenchError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *BenchError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// New creates a new BenchError
func New(code ErrorCode, message string) *BenchError {
	return &BenchError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new BenchError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *BenchError {
	return &BenchError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *BenchError) WithSuggestion(suggestion string) *BenchError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *BenchError) WithSuggestions(suggestions ...string) *BenchError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *BenchError) WithDocs(url string) *BenchError {
	e.DocsURL = url
	return e
}

// IsCode reports whether err is a BenchError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	be, ok := err.(*BenchError)
	return ok && be.Code == code
}

// Common error constructors for frequently used errors

// NewSpawnFailureError creates a subprocess spawn failure error
func NewSpawnFailureError(command string, cause error) *BenchError {
	return Wrap(ErrCodeExecSpawnFailure, fmt.Sprintf("failed to spawn %s", command), cause).
		WithSuggestion(fmt.Sprintf("Check that %s is installed and on PATH", command)).
		WithSuggestion("Pass an explicit binary path with --backend-path or --nargo-path")
}

// NewTimeoutError creates a subprocess timeout error
func NewTimeoutError(command string, elapsedMS int64) *BenchError {
	return New(ErrCodeExecTimeout, fmt.Sprintf("%s timed out after %dms", command, elapsedMS)).
		WithSuggestion("Increase the limit with --timeout").
		WithSuggestion("Pass --timeout 0 to disable the deadline entirely")
}

// NewNonZeroExitError creates an error for a subprocess that ran but failed
func NewNonZeroExitError(command string, exitCode int, stderr string) *BenchError {
	msg := fmt.Sprintf("%s exited with code %d", command, exitCode)
	if stderr = strings.TrimSpace(stderr); stderr != "" {
		msg += fmt.Sprintf(": %s", stderr)
	}
	return New(ErrCodeExecNonZeroExit, msg)
}

// NewParseFailureError creates an error for malformed subprocess output
func NewParseFailureError(command string, cause error) *BenchError {
	return Wrap(ErrCodeExecParseFailure, fmt.Sprintf("failed to parse %s output", command), cause).
		WithSuggestion("Check that the installed tool version emits the expected JSON shape")
}

// NewSchemaMismatchError creates a schema version validation error
func NewSchemaMismatchError(got, want uint32) *BenchError {
	return New(ErrCodeStoreSchemaMismatch,
		fmt.Sprintf("schema version mismatch: record has v%d, expected v%d", got, want))
}

// NewComparisonInputError creates an error for a comparison with no usable input
func NewComparisonInputError() *BenchError {
	return New(ErrCodeCompareInputUnavailable,
		"must provide either --baseline-file/--target-file or --baseline/--contender").
		WithSuggestion("Point --baseline-file and --target-file at JSONL telemetry files")
}
