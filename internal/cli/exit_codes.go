package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
	"github.com/cameron-jack/ngsg-release/internal/publish"
)

// Exit codes for the ngsg-release CLI.
// Each release step fails with its own code so scripts and CI can tell
// where a release stopped without parsing output.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a general failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitPrecondition indicates a failed precondition: missing changelog,
	// not a repository, detached HEAD, unconfigured remote
	ExitPrecondition = 3

	// ExitWriteFailed indicates the changelog could not be replaced on disk
	ExitWriteFailed = 4

	// ExitStageFailed indicates the stage step failed
	ExitStageFailed = 5

	// ExitCommitFailed indicates the commit step failed
	ExitCommitFailed = 6

	// ExitTagFailed indicates the tag step failed
	ExitTagFailed = 7

	// ExitPushBranchFailed indicates the branch push failed
	ExitPushBranchFailed = 8

	// ExitPushTagFailed indicates the tag push failed
	ExitPushTagFailed = 9
)

// ExitError carries an exit code through the cobra error return. The
// wrapped error, when present, is what main prints; a bare ExitError
// means the command already printed its own diagnostics.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the wrapped error for errors.Is/As chains.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a bare error carrying the given exit code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// IsExitError reports whether err carries an explicit exit code.
func IsExitError(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// ExitCode maps an error to the process exit code. nil is success; an
// ExitError yields its code; a structured CLI error maps through its
// category; anything else is a general failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return categoryExitCode(cliErr.Category)
	}

	return ExitFailure
}

// categoryExitCode maps an error category to its exit code.
func categoryExitCode(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Precondition:
		return ExitPrecondition
	case clierrors.Write:
		return ExitWriteFailed
	default:
		return ExitFailure
	}
}

// stepExitCode maps a failed release step to its exit code.
func stepExitCode(step publish.Step) int {
	switch step {
	case publish.StepStage:
		return ExitStageFailed
	case publish.StepCommit:
		return ExitCommitFailed
	case publish.StepTag:
		return ExitTagFailed
	case publish.StepPushBranch:
		return ExitPushBranchFailed
	case publish.StepPushTag:
		return ExitPushTagFailed
	default:
		return ExitFailure
	}
}
