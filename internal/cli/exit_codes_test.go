// Package cli tests exit code constants and error-to-exit-code mapping.
// Related: internal/cli/exit_codes.go
// Tags: cli, exit-codes, errors

package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
	"github.com/cameron-jack/ngsg-release/internal/publish"
)

func TestExitCodeValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		code int
		want int
	}{
		"success":            {code: ExitSuccess, want: 0},
		"failure":            {code: ExitFailure, want: 1},
		"invalid arguments":  {code: ExitInvalidArguments, want: 2},
		"precondition":       {code: ExitPrecondition, want: 3},
		"write failed":       {code: ExitWriteFailed, want: 4},
		"stage failed":       {code: ExitStageFailed, want: 5},
		"commit failed":      {code: ExitCommitFailed, want: 6},
		"tag failed":         {code: ExitTagFailed, want: 7},
		"push branch failed": {code: ExitPushBranchFailed, want: 8},
		"push tag failed":    {code: ExitPushTagFailed, want: 9},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.code)
		})
	}
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	bare := NewExitError(ExitPrecondition)
	assert.Equal(t, "exit code 3", bare.Error())

	wrapped := &ExitError{Code: ExitTagFailed, Err: errors.New("tag v1 failed")}
	assert.Equal(t, "tag v1 failed", wrapped.Error())
}

func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := clierrors.StepFailed("tag", 128)
	err := &ExitError{Code: ExitTagFailed, Err: inner}

	var cliErr *clierrors.CLIError
	require.True(t, errors.As(err, &cliErr), "ExitError should expose the wrapped CLIError")
	assert.Same(t, inner, cliErr)
}

func TestIsExitError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExitError(NewExitError(ExitInvalidArguments)))
	assert.True(t, IsExitError(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure))))
	assert.False(t, IsExitError(errors.New("plain")))
	assert.False(t, IsExitError(nil))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil means success": {
			err:  nil,
			want: ExitSuccess,
		},
		"exit error carries its code": {
			err:  NewExitError(ExitPushTagFailed),
			want: ExitPushTagFailed,
		},
		"wrapped exit error": {
			err:  fmt.Errorf("publish: %w", NewExitError(ExitStageFailed)),
			want: ExitStageFailed,
		},
		"argument error": {
			err:  clierrors.NewArgumentError("bad flag"),
			want: ExitInvalidArguments,
		},
		"precondition error": {
			err:  clierrors.NewPreconditionError("no remote"),
			want: ExitPrecondition,
		},
		"write error": {
			err:  clierrors.NewWriteError("rename failed"),
			want: ExitWriteFailed,
		},
		"configuration error": {
			err:  clierrors.NewConfigError("bad yaml"),
			want: ExitFailure,
		},
		"command error": {
			err:  clierrors.NewCommandError("git exploded"),
			want: ExitFailure,
		},
		"plain error": {
			err:  errors.New("something broke"),
			want: ExitFailure,
		},
		"exit error wins over wrapped cli error": {
			err:  &ExitError{Code: ExitCommitFailed, Err: clierrors.StepFailed("commit", 1)},
			want: ExitCommitFailed,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestStepExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		step publish.Step
		want int
	}{
		"stage":       {step: publish.StepStage, want: ExitStageFailed},
		"commit":      {step: publish.StepCommit, want: ExitCommitFailed},
		"tag":         {step: publish.StepTag, want: ExitTagFailed},
		"push branch": {step: publish.StepPushBranch, want: ExitPushBranchFailed},
		"push tag":    {step: publish.StepPushTag, want: ExitPushTagFailed},
		"unknown":     {step: publish.Step("reticulate"), want: ExitFailure},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, stepExitCode(tt.step))
		})
	}
}
