package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
	"github.com/cameron-jack/ngsg-release/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past release runs",
	Long: `View a log of past release runs with timestamp, version, target,
exit code, and duration.

Only runs that attempted to mutate the repository are recorded. Dry
runs and declined confirmations leave no trace.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration(cmd)
		if err != nil {
			return err
		}
		return runHistoryWithStateDir(cmd, cfg.StateDir)
	},
}

func init() {
	historyCmd.GroupID = GroupInfo
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("release", "", "Filter by version label")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().BoolP("clear", "c", false, "Clear all history")
}

// runHistoryWithStateDir runs the history command against a specific state directory.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	versionFilter, _ := cmd.Flags().GetString("release")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.NewArgumentError(
			fmt.Sprintf("limit must be positive, got %d", limit),
			"Pass a positive entry count, e.g. --limit 10",
		)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := filterHistoryEntries(histFile.Entries, versionFilter, limit)

	if len(entries) == 0 {
		if versionFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No release runs recorded for version '%s'.\n", versionFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No release history available.")
		}
		return nil
	}

	displayHistoryEntries(cmd, entries)
	return nil
}

// filterHistoryEntries filters and limits history entries.
func filterHistoryEntries(entries []history.HistoryEntry, versionFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry

	for _, entry := range entries {
		if versionFilter == "" || entry.Version == versionFilter {
			result = append(result, entry)
		}
	}

	// Keep the most recent entries.
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}

	return result
}

// displayHistoryEntries formats and displays history entries.
func displayHistoryEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		exitCodeStr := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCodeStr = green(exitCodeStr)
		} else {
			exitCodeStr = red(exitCodeStr)
		}

		target := fmt.Sprintf("%s/%s", entry.Remote, entry.Branch)

		line := fmt.Sprintf("%s  %-12s  %-20s  exit=%s  %s",
			cyan(timestamp), entry.Version, target, exitCodeStr, entry.Duration)
		if entry.FailedStep != "" {
			line += red(fmt.Sprintf("  failed at %s", entry.FailedStep))
		}
		fmt.Fprintln(out, line)
	}
}
