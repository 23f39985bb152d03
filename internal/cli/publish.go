package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
	"github.com/cameron-jack/ngsg-release/internal/config"
	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
	"github.com/cameron-jack/ngsg-release/internal/git"
	"github.com/cameron-jack/ngsg-release/internal/history"
	"github.com/cameron-jack/ngsg-release/internal/output"
	"github.com/cameron-jack/ngsg-release/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish <version>",
	Short: "Rewrite the changelog and release through git",
	Long: `Publish a release: prepend the new entry to the changelog, then stage,
commit, tag, and push through git.

The five git steps run strictly in order and each one is gated on the
previous step succeeding. A failing step stops the release and exits
with a code naming the step (5 stage, 6 commit, 7 tag, 8 push branch,
9 push tag); a commit or tag already created stays local and is
reported, never rolled back.

Examples:
  ngsg-release publish v0.27.003 -m "* NEW: primer autoselection"
  ngsg-release publish v0.27.003 --notes-file notes.txt
  ngsg-release publish v0.27.003 -m "* fix" --dry-run
  ngsg-release publish v0.27.003 -m "* fix" -y`,
	Args:         requireVersionArg,
	SilenceUsage: true,
	RunE:         runPublish,
}

func init() {
	publishCmd.GroupID = GroupRelease
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringP("notes", "m", "", "Release notes (become the commit and tag message)")
	publishCmd.Flags().String("notes-file", "", "Read release notes from a file (- for stdin)")
	publishCmd.Flags().StringP("date", "d", "", "Date line value (default: today per date_format)")
	publishCmd.Flags().String("changelog", "", "Changelog file to rewrite")
	publishCmd.Flags().StringP("repo", "C", "", "Repository directory")
	publishCmd.Flags().StringP("remote", "r", "", "Git remote to push to")
	publishCmd.Flags().StringP("branch", "b", "", "Branch to push (default: current branch)")
	publishCmd.Flags().Bool("dry-run", false, "Print the planned commands without running anything")
	publishCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func runPublish(cmd *cobra.Command, args []string) error {
	version := args[0]
	start := time.Now()

	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	applyCommonOverrides(cmd, cfg)

	notes, err := resolveNotes(cmd)
	if err != nil {
		return err
	}
	if notes == "" {
		return clierrors.NotesRequired()
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	changelogPath := resolveChangelogPath(cfg)
	rel := changelog.Release{
		Version: version,
		Date:    resolveDate(cmd, cfg),
		Notes:   notes,
	}

	branch, err := checkPublishPreconditions(cfg, changelogPath, version)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if dryRun {
		printEntryPreview(cmd, rel)
		publisher := publish.NewPublisher(cfg.Repo, cfg.Remote, branch,
			publish.WithStdout(cmd.OutOrStdout()),
			publish.WithStderr(cmd.ErrOrStderr()),
			publish.WithDryRun(true),
		)
		return publisher.Publish(ctx, version, notes)
	}

	if !quiet {
		printEntryPreview(cmd, rel)
	}
	if !skipConfirm && !cfg.SkipConfirmations {
		question := fmt.Sprintf("Release %s to %s/%s?", version, cfg.Remote, branch)
		if !promptYesNo(cmd, question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	writer := history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)

	if err := rewriteChangelog(changelogPath, rel); err != nil {
		writer.LogRun(version, branch, cfg.Remote, nil, "changelog rewrite", ExitCode(err), time.Since(start))
		return err
	}

	reporter := newStepReporter(cmd.OutOrStdout(), quiet)
	publisher := publish.NewPublisher(cfg.Repo, cfg.Remote, branch,
		publish.WithStdout(cmd.OutOrStdout()),
		publish.WithStderr(cmd.ErrOrStderr()),
		publish.WithReporter(reporter),
	)

	pubErr := publisher.Publish(ctx, version, notes)

	failedStep := ""
	exitCode := ExitSuccess
	var stepErr *publish.StepError
	if errors.As(pubErr, &stepErr) {
		failedStep = string(stepErr.Step)
		exitCode = stepExitCode(stepErr.Step)
	} else if pubErr != nil {
		exitCode = ExitFailure
	}
	writer.LogRun(version, branch, cfg.Remote, reporter.Completed(), failedStep, exitCode, time.Since(start))

	if stepErr != nil {
		return &ExitError{
			Code: stepExitCode(stepErr.Step),
			Err: clierrors.StepFailed(string(stepErr.Step), stepErr.ExitCode,
				stepRemediation(stepErr.Step, cfg, branch, version)...),
		}
	}
	if pubErr != nil {
		return pubErr
	}

	if !quiet {
		output.PrintSummary(cmd.OutOrStdout(),
			fmt.Sprintf("Released %s: pushed %s and tag %s to %s.", version, branch, version, cfg.Remote))
	}
	return nil
}

// checkPublishPreconditions verifies everything the release needs before
// any mutation: git on PATH, a repository, the changelog file, a branch
// to push, the remote, and an unused tag name. It returns the branch the
// release will push.
func checkPublishPreconditions(cfg *config.Configuration, changelogPath, version string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", clierrors.GitNotFound()
	}

	if !git.IsGitRepository(cfg.Repo) {
		return "", clierrors.NotARepository(cfg.Repo)
	}

	if _, err := os.Stat(changelogPath); err != nil {
		if os.IsNotExist(err) {
			return "", clierrors.ChangelogNotFound(changelogPath)
		}
		return "", clierrors.ChangelogNotReadable(changelogPath, err)
	}

	branch := cfg.Branch
	if branch == "" {
		current, err := git.GetCurrentBranch(cfg.Repo)
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Precondition,
				"failed to resolve current branch")
		}
		branch = current
	} else {
		exists, err := git.BranchExists(cfg.Repo, branch)
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Precondition,
				"failed to check branch existence")
		}
		if !exists {
			available, _ := git.GetLocalBranches(cfg.Repo)
			return "", clierrors.BranchNotFound(branch, available)
		}
	}
	if branch == "" {
		return "", clierrors.DetachedHead()
	}

	hasRemote, err := git.HasRemote(cfg.Repo, cfg.Remote)
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Precondition,
			"failed to inspect remotes")
	}
	if !hasRemote {
		return "", clierrors.RemoteNotConfigured(cfg.Remote)
	}

	tagged, err := git.TagExists(cfg.Repo, version)
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Precondition,
			"failed to check existing tags")
	}
	if tagged {
		return "", clierrors.NewPreconditionError(
			fmt.Sprintf("tag %s already exists", version),
			"Pick a new version label",
			"Or delete the old tag first: git tag -d "+version,
		)
	}

	return branch, nil
}

// stepRemediation returns resume guidance for a failed release step,
// describing what local state the stopped run left behind.
func stepRemediation(step publish.Step, cfg *config.Configuration, branch, version string) []string {
	switch step {
	case publish.StepStage, publish.StepCommit:
		return []string{
			"Nothing was committed, but the changelog was already rewritten",
			"Restore it before re-running: git checkout -- " + cfg.Changelog,
		}
	case publish.StepTag:
		return []string{
			"The release commit exists locally but is untagged and unpushed",
			fmt.Sprintf("Resume manually: git tag -a %s -m <notes>, then push the branch and tag", version),
		}
	case publish.StepPushBranch:
		return []string{
			"The commit and tag exist locally but nothing was pushed",
			fmt.Sprintf("Resume with: git push %s %s && git push %s %s",
				cfg.Remote, branch, cfg.Remote, version),
		}
	case publish.StepPushTag:
		return []string{
			"The branch was pushed; only the tag push failed",
			fmt.Sprintf("Resume with: git push %s %s", cfg.Remote, version),
		}
	default:
		return nil
	}
}
