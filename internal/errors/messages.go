package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the ngsg-release CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
// A missing changelog is fatal: there are no prior entries to prepend to,
// and publishing must not invent one.
func ChangelogNotFound(path string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("changelog not found: %s", path),
		"Check the path with --changelog or the 'changelog' config key",
		"The changelog must exist before a release can prepend to it",
	)
}

// ChangelogNotReadable creates an error for an unreadable changelog file.
func ChangelogNotReadable(path string, err error) *CLIError {
	return WrapWithMessage(err, Precondition,
		fmt.Sprintf("cannot read changelog: %s", path),
		"Check file permissions: ls -la "+path,
	)
}

// ChangelogWriteFailed creates an error when the rewritten changelog cannot
// be placed on disk. The original file is left intact.
func ChangelogWriteFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Write,
		fmt.Sprintf("cannot replace changelog: %s", path),
		"Check directory permissions and free disk space",
		"The original changelog was not modified",
	)
}

// NotARepository creates an error when the target path is not a git repository.
func NotARepository(path string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run from inside the repository or pass it with --repo",
		"Initialize with: git init",
	)
}

// DetachedHead creates an error when no branch can be resolved for pushing.
func DetachedHead() *CLIError {
	return NewPreconditionError(
		"HEAD is detached; no branch to push",
		"Check out a branch: git switch <branch>",
		"Or name the branch explicitly with --branch",
	)
}

// BranchNotFound creates an error when the requested branch has no local ref.
// Pushing a branch that does not exist always fails, so it is refused up front.
func BranchNotFound(branch string, available []string) *CLIError {
	remediation := []string{
		"List branches with: git branch",
		"Create it with: git switch -c " + branch,
	}
	if len(available) > 0 {
		remediation = append([]string{"Local branches: " + strings.Join(available, ", ")}, remediation...)
	}
	return NewPreconditionError(
		fmt.Sprintf("branch %q does not exist", branch),
		remediation...,
	)
}

// RemoteNotConfigured creates an error when the named remote does not exist.
func RemoteNotConfigured(remote string) *CLIError {
	return NewPreconditionError(
		fmt.Sprintf("remote %q is not configured", remote),
		"List remotes with: git remote -v",
		"Add it with: git remote add "+remote+" <url>",
		"Or select another remote with --remote",
	)
}

// GitNotFound creates an error when the git binary is not on PATH.
func GitNotFound() *CLIError {
	return NewPreconditionError(
		"git command not found",
		"Install git and ensure it is in your PATH",
		"Verify with: git --version",
	)
}

// NotesRequired creates an error when publish is invoked without notes.
func NotesRequired() *CLIError {
	return NewArgumentErrorWithUsage(
		"release notes are required",
		"ngsg-release publish <version> -m \"<notes>\"",
		"Pass notes with -m/--notes or --notes-file",
		"The notes become the commit and tag message",
	)
}

// StepFailed creates an error for a failed publisher step. Remaining steps
// were not attempted; any commit or tag already created stays local.
func StepFailed(step string, exitCode int, resume ...string) *CLIError {
	msg := fmt.Sprintf("%s failed with exit code %d", step, exitCode)
	remediation := append([]string{
		"Inspect the command output above for the cause",
	}, resume...)
	return NewCommandError(msg, remediation...)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'ngsg-release <command> --help' to see valid options",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Remove the file to fall back to defaults",
	)
}
