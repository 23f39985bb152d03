package cli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
	"github.com/cameron-jack/ngsg-release/internal/config"
	"github.com/cameron-jack/ngsg-release/internal/git"
	"github.com/cameron-jack/ngsg-release/internal/progress"
)

// checkResult is one line of the readiness report. Required results gate
// the exit code; informational ones only annotate.
type checkResult struct {
	Name     string
	Passed   bool
	Required bool
	Detail   string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the repository is ready to release",
	Long: `Verify that publish would get past its preconditions.

Runs the same checks publish runs before mutating anything: the git
binary, the repository, the changelog file, the target branch and the
remote. Worktree cleanliness is reported but never fails the check,
since publish stages whatever is pending.

With --ping the configured remote is contacted over the network, which
the offline checks never do.`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.GroupID = GroupRelease
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("ping", false, "Contact the remote to verify reachability")
	checkCmd.Flags().Bool("print-config", false, "Print the default configuration template and exit")
	checkCmd.Flags().String("changelog", "", "Changelog file to check")
	checkCmd.Flags().StringP("repo", "C", "", "Repository directory")
	checkCmd.Flags().StringP("remote", "r", "", "Remote to check")
	checkCmd.Flags().StringP("branch", "b", "", "Branch to check")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if printConfig, _ := cmd.Flags().GetBool("print-config"); printConfig {
		fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigTemplate())
		return nil
	}

	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	applyCommonOverrides(cmd, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ping, _ := cmd.Flags().GetBool("ping")
	results := runChecks(ctx, cfg, ping)
	printCheckResults(cmd, results)

	for _, res := range results {
		if res.Required && !res.Passed {
			return NewExitError(ExitPrecondition)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nReady to release.")
	return nil
}

// runChecks runs every readiness check concurrently. Each check owns one
// slot of the result slice, so no locking is needed.
func runChecks(ctx context.Context, cfg *config.Configuration, ping bool) []checkResult {
	checks := []func(context.Context, *config.Configuration) checkResult{
		checkGitBinary,
		checkRepository,
		checkChangelogFile,
		checkBranch,
		checkRemote,
		checkWorktree,
	}
	if ping {
		checks = append(checks, checkRemoteReachable)
	}

	results := make([]checkResult, len(checks))
	g, ctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			results[i] = check(ctx, cfg)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func checkGitBinary(_ context.Context, _ *config.Configuration) checkResult {
	res := checkResult{Name: "git binary", Required: true}
	path, err := exec.LookPath("git")
	if err != nil {
		res.Detail = "not found on PATH"
		return res
	}
	res.Passed = true
	res.Detail = path
	return res
}

func checkRepository(_ context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "repository", Required: true}
	if !git.IsGitRepository(cfg.Repo) {
		res.Detail = fmt.Sprintf("%s is not a git repository", cfg.Repo)
		return res
	}
	res.Passed = true
	if root, err := git.GetRepositoryRoot(cfg.Repo); err == nil {
		res.Detail = root
	}
	return res
}

func checkChangelogFile(_ context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "changelog", Required: true}
	path := resolveChangelogPath(cfg)

	log, err := changelog.Load(path)
	if err != nil {
		res.Detail = fmt.Sprintf("%s: %v", path, err)
		return res
	}

	res.Passed = true
	if latest := log.Latest(); latest != nil {
		res.Detail = fmt.Sprintf("%d entries, latest %s", log.EntryCount(), latest.Version)
	} else {
		res.Detail = fmt.Sprintf("%s (no entries yet)", path)
	}
	return res
}

func checkBranch(_ context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "branch", Required: true}

	if cfg.Branch != "" {
		exists, err := git.BranchExists(cfg.Repo, cfg.Branch)
		if err != nil {
			res.Detail = err.Error()
			return res
		}
		if !exists {
			res.Detail = fmt.Sprintf("configured branch %q does not exist", cfg.Branch)
			return res
		}
		res.Passed = true
		res.Detail = fmt.Sprintf("%s (configured)", cfg.Branch)
		return res
	}

	branch, err := git.GetCurrentBranch(cfg.Repo)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	if branch == "" {
		res.Detail = "detached HEAD, no branch to push"
		return res
	}

	res.Passed = true
	res.Detail = branch
	return res
}

func checkRemote(_ context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "remote", Required: true}

	has, err := git.HasRemote(cfg.Repo, cfg.Remote)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	if !has {
		res.Detail = fmt.Sprintf("remote %q not configured", cfg.Remote)
		return res
	}

	res.Passed = true
	res.Detail = cfg.Remote
	if url, err := git.GetRemoteURL(cfg.Repo, cfg.Remote); err == nil {
		res.Detail = fmt.Sprintf("%s (%s)", cfg.Remote, url)
	}
	return res
}

func checkWorktree(_ context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "worktree", Passed: true}

	clean, err := git.IsClean(cfg.Repo)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	if clean {
		res.Detail = "clean"
	} else {
		res.Detail = "uncommitted changes (will be staged by publish)"
	}
	return res
}

func checkRemoteReachable(ctx context.Context, cfg *config.Configuration) checkResult {
	res := checkResult{Name: "remote reachable", Required: true}

	ctx, cancel := context.WithTimeout(ctx, git.DefaultPingTimeout)
	defer cancel()

	err := git.PingRemote(ctx, cfg.Repo, cfg.Remote)
	switch {
	case err == nil:
		res.Passed = true
		res.Detail = "listed remote refs"
	case errors.Is(err, git.ErrSSHAgentUnavailable):
		res.Passed = true
		res.Required = false
		res.Detail = "skipped (SSH remote without agent)"
	default:
		res.Detail = err.Error()
	}
	return res
}

// printCheckResults writes one symbol-prefixed line per check.
func printCheckResults(cmd *cobra.Command, results []checkResult) {
	caps := progress.DetectTerminalCapabilities()
	symbols := progress.SelectSymbols(caps)

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, res := range results {
		symbol := green(symbols.Checkmark)
		if !res.Passed {
			symbol = red(symbols.Failure)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", symbol, res.Name, res.Detail)
	}
}
