package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo creates a scratch git repository in a temp directory and
// returns its path. The repository starts with no commits.
func InitRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("initializing scratch repository: %v", err)
	}
	return dir
}

// CommitFile writes a file into the repository, stages it, and commits it.
func CommitFile(t *testing.T, repoDir, name, content, message string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(repoDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("opening scratch repository: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("getting worktree: %v", err)
	}

	if _, err := wt.Add(name); err != nil {
		t.Fatalf("staging %s: %v", name, err)
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("committing %s: %v", name, err)
	}
}

// CreateBranch adds a local branch pointing at the current HEAD commit.
func CreateBranch(t *testing.T, repoDir, name string) {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("opening scratch repository: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("resolving HEAD: %v", err)
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("creating branch %s: %v", name, err)
	}
}

// AddRemote configures a remote on the scratch repository. The URL does
// not need to be reachable; configuration presence is what the release
// preconditions inspect.
func AddRemote(t *testing.T, repoDir, name, url string) {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("opening scratch repository: %v", err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		t.Fatalf("adding remote %s: %v", name, err)
	}
}

// ReleaseRepo builds the standard publish fixture: a scratch repository
// with a committed changelog and an origin remote. It returns the
// repository path and the changelog path.
func ReleaseRepo(t *testing.T, changelogContent string) (repoDir, changelogPath string) {
	t.Helper()

	repoDir = InitRepo(t)
	CommitFile(t, repoDir, "changelog.txt", changelogContent, "add changelog")
	AddRemote(t, repoDir, "origin", "https://example.com/ngsgeno.git")
	return repoDir, filepath.Join(repoDir, "changelog.txt")
}
