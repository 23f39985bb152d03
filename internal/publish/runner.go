// Package publish runs the version-control side of a release: staging,
// committing, tagging and pushing, in a fixed order where each step is
// gated on the previous one succeeding. The external git binary is treated
// as a black box; this package supplies argv and interprets exit status.
package publish

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for publish operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Runner executes external commands for release steps.
type Runner interface {
	// Run executes name with args in dir, streaming output to stdout and
	// stderr, and returns the command's exit code. A non-nil error means
	// the command could not be run at all or was cut short by ctx; a
	// command that ran and failed is reported through the exit code alone.
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error)
}

// ExecRunner runs commands via os/exec. It is the production Runner.
type ExecRunner struct{}

// Run executes the command with its working directory set to dir.
// Output streams to the provided writers so interactive prompts (credential
// helpers, say) remain visible. No deadline is imposed beyond ctx.
func (r *ExecRunner) Run(
	ctx context.Context,
	dir string,
	stdout, stderr io.Writer,
	name string,
	args ...string,
) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A process killed by ctx also surfaces as an ExitError. Report
		// that as a context error, not an exit status.
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		// The command ran and exited non-zero. That is a step failure,
		// not a runner failure.
		return exitErr.ExitCode(), nil
	}

	return -1, err
}
