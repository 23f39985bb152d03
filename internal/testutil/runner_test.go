package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRecorder_RecordsCallsInOrder(t *testing.T) {
	t.Parallel()

	r := NewRunnerRecorder()

	code, err := r.Run(context.Background(), "/repo", io.Discard, io.Discard, "git", "add", "-u")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = r.Run(context.Background(), "/repo", io.Discard, io.Discard, "git", "commit", "-m", "notes")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Equal(t, []string{"git add -u", "git commit -m notes"}, r.Keys())
	assert.Equal(t, 2, r.CallCount())

	calls := r.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/repo", calls[0].Dir)
	assert.Equal(t, "git", calls[0].Name)
	assert.Equal(t, []string{"add", "-u"}, calls[0].Args)
}

func TestRunnerRecorder_ProgrammedFailures(t *testing.T) {
	t.Parallel()

	r := NewRunnerRecorder().
		FailWith("git push origin main", 128).
		ErrorWith("git add -u", errors.New("git not found"))

	code, err := r.Run(context.Background(), "", io.Discard, io.Discard, "git", "push", "origin", "main")
	require.NoError(t, err)
	assert.Equal(t, 128, code)

	code, err = r.Run(context.Background(), "", io.Discard, io.Discard, "git", "add", "-u")
	assert.Error(t, err)
	assert.Equal(t, -1, code)

	code, err = r.Run(context.Background(), "", io.Discard, io.Discard, "git", "tag", "-a", "v1", "-m", "n")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunnerRecorder_WritesOutput(t *testing.T) {
	t.Parallel()

	r := NewRunnerRecorder().WithOutput("On branch main\n")

	var out bytes.Buffer
	_, err := r.Run(context.Background(), "", &out, io.Discard, "git", "status")
	require.NoError(t, err)
	assert.Equal(t, "On branch main\n", out.String())
}
