// Package git provides repository introspection for release preflight
// checks including branch detection, repository validation, cleanliness
// and remote inspection. It uses the go-git library for all read-side
// operations; the release steps themselves run through the git CLI so
// their exit status can be reported verbatim.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
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

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] GetRepositoryRoot: %s", root)
	return root, nil
}

// GetCurrentBranch returns the name of the current git branch.
// Returns empty string if in detached HEAD state. On an unborn branch
// (fresh repository with no commits) it resolves the HEAD symref so the
// to-be-created branch name is still reported.
func GetCurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return unbornBranch(repo)
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	// Check if in detached HEAD state
	if !head.Name().IsBranch() {
		logDebug("[git] GetCurrentBranch: detached HEAD state")
		return "", nil
	}

	branch := head.Name().Short()
	logDebug("[git] GetCurrentBranch: %s", branch)
	return branch, nil
}

// unbornBranch reads the branch name HEAD points at before the first commit.
func unbornBranch(repo *git.Repository) (string, error) {
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return "", nil
	}

	branch := ref.Target().Short()
	logDebug("[git] GetCurrentBranch: unborn %s", branch)
	return branch, nil
}

// IsClean reports whether the worktree has no uncommitted changes.
// Untracked files count as dirty, matching what git status shows.
func IsClean(path string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("getting worktree status: %w", err)
	}

	clean := status.IsClean()
	logDebug("[git] IsClean: %v", clean)
	return clean, nil
}

// GetRemotes returns the names of all configured remotes, sorted.
func GetRemotes(path string) ([]string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("listing remotes: %w", err)
	}

	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	sort.Strings(names)

	logDebug("[git] GetRemotes: found %d remotes", len(names))
	return names, nil
}

// HasRemote reports whether a remote with the given name is configured.
func HasRemote(path, name string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}

	_, err = repo.Remote(name)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up remote %q: %w", name, err)
	}
	return true, nil
}

// GetRemoteURL returns the first configured URL of the named remote.
func GetRemoteURL(path, name string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("looking up remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL configured", name)
	}
	return urls[0], nil
}

// GetLocalBranches returns the names of all local branches, sorted.
func GetLocalBranches(path string) ([]string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	branchIter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing local branches: %w", err)
	}

	var names []string
	err = branchIter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating local branches: %w", err)
	}

	sort.Strings(names)
	logDebug("[git] GetLocalBranches: found %d branches", len(names))
	return names, nil
}

// BranchExists reports whether a local branch with the given name exists.
func BranchExists(path, name string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking branch existence: %w", err)
	}
	return true, nil
}

// TagExists reports whether a tag with the given name exists.
// A release is refused up front when its version label is already tagged.
func TagExists(path, name string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewTagReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking tag existence: %w", err)
	}
	return true, nil
}

// DefaultPingTimeout bounds remote reachability probes.
const DefaultPingTimeout = 10 * time.Second

// ErrSSHAgentUnavailable is returned by PingRemote when the remote uses an
// SSH URL but no SSH agent is available to authenticate the probe.
var ErrSSHAgentUnavailable = errors.New("remote uses SSH but no SSH agent is available")

// PingRemote verifies the named remote is reachable by listing its
// references, without fetching. SSH remotes use SSH agent auth and HTTPS
// remotes use environment credentials. The context bounds the probe so an
// unreachable host cannot hang the caller.
func PingRemote(ctx context.Context, path, name string) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return fmt.Errorf("looking up remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return fmt.Errorf("remote %q has no URL configured", name)
	}
	url := urls[0]

	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] PingRemote: skipping %s, SSH URL without SSH agent", name)
		return ErrSSHAgentUnavailable
	}

	logDebug("[git] pinging remote '%s' (%s)", name, url)

	_, err = remote.ListContext(ctx, &git.ListOptions{Auth: getAuthForURL(url)})
	if err != nil {
		return fmt.Errorf("listing refs on remote %q: %w", name, err)
	}
	return nil
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	// For HTTPS, try environment credentials
	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
// Returns true only if SSH_AUTH_SOCK is set and non-empty.
func isSSHAgentAvailable() bool {
	sock := strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK"))
	return sock != ""
}
