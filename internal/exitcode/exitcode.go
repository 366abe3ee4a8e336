package exitcode

import (
	"os"

	"github.com/felixgeelhaar/zkbench/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ExecFailure indicates a benchmarked subprocess could not run to completion
	ExecFailure = 3

	// Timeout indicates a benchmarked subprocess exceeded its deadline
	Timeout = 4

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if benchErr, ok := err.(*errors.BenchError); ok {
		switch benchErr.Code {
		case errors.ErrCodeExecTimeout:
			return Timeout
		case errors.ErrCodeExecSpawnFailure, errors.ErrCodeExecNonZeroExit:
			return ExecFailure
		case errors.ErrCodeWorkflowInvalidIterations, errors.ErrCodeCompareInputUnavailable:
			return UsageError
		}
	}

	return GeneralError
}
