package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
)

var logCmd = &cobra.Command{
	Use:   "log [version]",
	Short: "Show parsed changelog entries",
	Long: `Show entries parsed from the project changelog.

By default the 5 most recent entries are shown. Pass a version label to
show just that entry, or use --last to control the entry count. The
parse is display-only: releasing never depends on it.

Examples:
  ngsg-release log                  # 5 most recent entries
  ngsg-release log v0.27.003        # one specific entry
  ngsg-release log --last 10        # 10 most recent entries
  ngsg-release log --format yaml    # machine-readable output
  ngsg-release log --watch          # re-render on every change`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runLog,
}

func init() {
	logCmd.GroupID = GroupInfo
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntP("last", "n", 5, "Number of entries to show")
	logCmd.Flags().Bool("plain", false, "Plain text output (no colors)")
	logCmd.Flags().String("format", "text", "Output format: text or yaml")
	logCmd.Flags().Bool("watch", false, "Re-render whenever the changelog changes")
	logCmd.Flags().String("changelog", "", "Changelog file to read")
	logCmd.Flags().StringP("repo", "C", "", "Repository directory")
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	applyCommonOverrides(cmd, cfg)

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "yaml" {
		return clierrors.NewArgumentError(
			fmt.Sprintf("unknown format %q", format),
			"Valid formats are text and yaml",
		)
	}

	path := resolveChangelogPath(cfg)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if len(args) == 1 {
			return clierrors.InvalidFlagCombination("--watch with a version argument",
				"Watch renders the newest entries; pick one or the other")
		}
		return watchChangelog(cmd, path)
	}

	log, err := changelog.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.ChangelogNotFound(path)
		}
		return clierrors.ChangelogNotReadable(path, err)
	}

	if len(args) == 1 {
		return showLogVersion(cmd, log, args[0])
	}

	last, _ := cmd.Flags().GetInt("last")
	return showLogEntries(cmd, log, last)
}

// showLogVersion renders the entry for one version. An unknown version
// lists what is available and exits with the invalid-arguments code.
func showLogVersion(cmd *cobra.Command, log *changelog.Changelog, version string) error {
	entry, err := log.GetVersion(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintln(cmd.ErrOrStderr(), "Available versions:")
			for _, ver := range log.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ver)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return renderLogEntries(cmd, []changelog.Entry{*entry})
}

// showLogEntries renders the n most recent entries with a truncation note
// when more exist.
func showLogEntries(cmd *cobra.Command, log *changelog.Changelog, n int) error {
	entries := log.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := renderLogEntries(cmd, entries); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if total := log.EntryCount(); format == "text" && total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}
	return nil
}

// renderLogEntries writes entries in the selected output format.
func renderLogEntries(cmd *cobra.Command, entries []changelog.Entry) error {
	format, _ := cmd.Flags().GetString("format")
	if format == "yaml" {
		return changelog.FormatYAML(entries, cmd.OutOrStdout())
	}

	plain, _ := cmd.Flags().GetBool("plain")
	return changelog.FormatTerminal(entries, cmd.OutOrStdout(), changelog.FormatOptions{Plain: plain})
}

// watchChangelog re-renders the newest entries every time the changelog
// changes, until interrupted.
func watchChangelog(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	watcher, err := changelog.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	updates, err := watcher.Watch(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.ChangelogNotFound(path)
		}
		return err
	}

	last, _ := cmd.Flags().GetInt("last")
	dim := color.New(color.Faint).SprintFunc()

	first := true
	for log := range updates {
		if !first {
			fmt.Fprintln(cmd.OutOrStdout(), dim(fmt.Sprintf("--- reloaded %s ---", time.Now().Format("15:04:05"))))
		}
		first = false

		if err := showLogEntries(cmd, log, last); err != nil {
			return err
		}
	}
	return nil
}
