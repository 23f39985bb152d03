package testutil

import (
	"os"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseRepo(t *testing.T) {
	t.Parallel()

	repoDir, changelogPath := ReleaseRepo(t, "v0.1.0\nDate: 2026-01-19\n* initial\n\n")

	content, err := os.ReadFile(changelogPath)
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0\nDate: 2026-01-19\n* initial\n\n", string(content))

	repo, err := git.PlainOpen(repoDir)
	require.NoError(t, err)

	// Changelog is committed, so the fixture worktree starts clean
	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.True(t, status.IsClean())

	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/ngsgeno.git"}, remote.Config().URLs)
}

func TestInitRepo_NoCommits(t *testing.T) {
	t.Parallel()

	repoDir := InitRepo(t)

	repo, err := git.PlainOpen(repoDir)
	require.NoError(t, err)

	_, err = repo.Head()
	assert.Error(t, err, "a fresh scratch repository has no HEAD commit")
}

func TestCreateBranch(t *testing.T) {
	t.Parallel()

	repoDir, _ := ReleaseRepo(t, "v0.1.0\nDate: 2026-01-19\n* initial\n\n")
	CreateBranch(t, repoDir, "release-line")

	repo, err := git.PlainOpen(repoDir)
	require.NoError(t, err)

	ref, err := repo.Reference(plumbing.NewBranchReferenceName("release-line"), false)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), ref.Hash(), "new branch points at HEAD")
}
