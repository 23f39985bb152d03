package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
	"github.com/cameron-jack/ngsg-release/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Long: `Show the ngsg-release version along with commit, build date, Go
version, and platform.

Use --changelog to read the tool's own release notes, or --check to
compare the running version against the newest published release.`,
	SilenceUsage: true,
	RunE:         runVersion,
}

func init() {
	versionCmd.GroupID = GroupInfo
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("changelog", false, "Show the tool's own changelog")
	versionCmd.Flags().Bool("check", false, "Check whether a newer release exists")
	versionCmd.Flags().Bool("plain", false, "Plain text output (no colors)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if showLog, _ := cmd.Flags().GetBool("changelog"); showLog {
		return showOwnChangelog(cmd)
	}

	printBuildInfo(cmd)

	if check, _ := cmd.Flags().GetBool("check"); check {
		return checkForUpdate(cmd)
	}
	return nil
}

func printBuildInfo(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ngsg-release %s\n", version.Version)
	fmt.Fprintf(out, "  commit: %s\n", version.Commit)
	fmt.Fprintf(out, "  built: %s\n", version.BuildDate)
	fmt.Fprintf(out, "  go: %s\n", runtime.Version())
	fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// showOwnChangelog renders the changelog compiled into the binary.
func showOwnChangelog(cmd *cobra.Command) error {
	log, err := changelog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("loading embedded changelog: %w", err)
	}

	plain, _ := cmd.Flags().GetBool("plain")
	return changelog.FormatTerminal(log.GetLastN(log.EntryCount()), cmd.OutOrStdout(),
		changelog.FormatOptions{Plain: plain})
}

// checkForUpdate compares the running version against the newest release,
// falling back to the embedded changelog when offline.
func checkForUpdate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if version.IsDevBuild() {
		fmt.Fprintln(out, "\ndev build: update check not applicable")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, changelog.DefaultRemoteTimeout)
	defer cancel()

	log, fromRemote, err := changelog.FetchRemoteWithFallback(ctx)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	latest := log.Latest()
	switch {
	case latest == nil:
		fmt.Fprintln(out, "\nno releases found")
	case latest.Version == version.Version:
		fmt.Fprintf(out, "\nAlready on the latest version (%s)\n", latest.Version)
	case fromRemote:
		fmt.Fprintf(out, "\nNewer version available: %s (running %s)\n", latest.Version, version.Version)
	default:
		fmt.Fprintf(out, "\nNewest known version: %s (running %s; offline, checked the embedded changelog)\n",
			latest.Version, version.Version)
	}
	return nil
}
