// Package cli tests the check command: readiness reporting and the
// required/informational split.
// Related: internal/cli/check.go
// Tags: cli, check, preconditions

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameron-jack/ngsg-release/internal/testutil"
)

const checkFixtureChangelog = "v0.1.0\nDate: 2026-01-19\n* initial\n\n"

func getCheckCmd() *cobra.Command {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "check" {
			return cmd
		}
	}
	return nil
}

func TestCheckCmdRegistration(t *testing.T) {
	t.Parallel()

	cmd := getCheckCmd()
	require.NotNil(t, cmd, "check command should be registered")
	assert.Equal(t, GroupRelease, cmd.GroupID)
}

func TestCheckCmdFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName  string
		shorthand string
		wantType  string
	}{
		"ping flag":         {flagName: "ping", shorthand: "", wantType: "bool"},
		"print-config flag": {flagName: "print-config", shorthand: "", wantType: "bool"},
		"changelog flag":    {flagName: "changelog", shorthand: "", wantType: "string"},
		"repo flag":         {flagName: "repo", shorthand: "C", wantType: "string"},
		"remote flag":       {flagName: "remote", shorthand: "r", wantType: "string"},
		"branch flag":       {flagName: "branch", shorthand: "b", wantType: "string"},
	}

	cmd := getCheckCmd()
	require.NotNil(t, cmd, "check command must exist")

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := cmd.Flags().Lookup(tt.flagName)
			require.NotNil(t, f, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.wantType, f.Value.Type())
		})
	}
}

func TestCheckPrintConfig(t *testing.T) {
	stdout, _, err := executeCommand(t, "check", "--print-config")
	require.NoError(t, err)

	assert.Contains(t, stdout, "changelog: changelog.txt")
	assert.Contains(t, stdout, "remote: origin")
	assert.Contains(t, stdout, "state_dir:")
	assert.Contains(t, stdout, "NGSG_RELEASE_")
}

func TestCheckReadyRepository(t *testing.T) {
	repoDir, _ := testutil.ReleaseRepo(t, checkFixtureChangelog)

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "git binary")
	assert.Contains(t, stdout, "repository")
	assert.Contains(t, stdout, "changelog")
	assert.Contains(t, stdout, "1 entries, latest v0.1.0")
	assert.Contains(t, stdout, "branch")
	assert.Contains(t, stdout, "master")
	assert.Contains(t, stdout, "remote")
	assert.Contains(t, stdout, "origin (https://example.com/ngsgeno.git)")
	assert.Contains(t, stdout, "worktree")
	assert.Contains(t, stdout, "clean")
	assert.Contains(t, stdout, "Ready to release.")
}

func TestCheckFailsOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changelog.txt"), []byte(checkFixtureChangelog), 0o644))

	stdout, _, err := executeCommand(t, "check", "--repo", dir)
	require.Error(t, err)
	assert.Equal(t, ExitPrecondition, ExitCode(err))
	assert.Contains(t, stdout, "is not a git repository")
	assert.NotContains(t, stdout, "Ready to release.")
}

func TestCheckMissingChangelog(t *testing.T) {
	repoDir := testutil.InitRepo(t)
	testutil.CommitFile(t, repoDir, "README.md", "hello\n", "initial commit")
	testutil.AddRemote(t, repoDir, "origin", "https://example.com/ngsgeno.git")

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir)
	require.Error(t, err)
	assert.Equal(t, ExitPrecondition, ExitCode(err))
	assert.Contains(t, stdout, "changelog")
	assert.NotContains(t, stdout, "Ready to release.")
}

func TestCheckUnknownRemote(t *testing.T) {
	repoDir, _ := testutil.ReleaseRepo(t, checkFixtureChangelog)

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir, "--remote", "upstream")
	require.Error(t, err)
	assert.Equal(t, ExitPrecondition, ExitCode(err))
	assert.Contains(t, stdout, `remote "upstream" not configured`)
}

func TestCheckDirtyWorktreeIsInformational(t *testing.T) {
	repoDir, changelogPath := testutil.ReleaseRepo(t, checkFixtureChangelog)
	require.NoError(t, os.WriteFile(changelogPath, []byte(checkFixtureChangelog+"pending edit\n"), 0o644))

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir)
	require.NoError(t, err, "a dirty worktree must not fail the check")
	assert.Contains(t, stdout, "uncommitted changes (will be staged by publish)")
	assert.Contains(t, stdout, "Ready to release.")
}

func TestCheckConfiguredBranchExists(t *testing.T) {
	repoDir, _ := testutil.ReleaseRepo(t, checkFixtureChangelog)
	testutil.CreateBranch(t, repoDir, "release-line")

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir, "--branch", "release-line")
	require.NoError(t, err)
	assert.Contains(t, stdout, "release-line (configured)")
}

func TestCheckConfiguredBranchMissing(t *testing.T) {
	repoDir, _ := testutil.ReleaseRepo(t, checkFixtureChangelog)

	stdout, _, err := executeCommand(t, "check", "--repo", repoDir, "--branch", "release-line")
	require.Error(t, err)
	assert.Equal(t, ExitPrecondition, ExitCode(err))
	assert.Contains(t, stdout, `configured branch "release-line" does not exist`)
}
