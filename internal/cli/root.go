// Package cli implements the ngsg-release command surface: publish,
// prepend, log, check, history, and version. Commands register
// themselves on the root command from their files' init functions.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
	"github.com/cameron-jack/ngsg-release/internal/git"
	"github.com/cameron-jack/ngsg-release/internal/publish"
	"github.com/cameron-jack/ngsg-release/internal/version"
)

// Command group IDs for help output.
const (
	// GroupRelease holds the commands that mutate the changelog or repository.
	GroupRelease = "release"

	// GroupInfo holds the read-only inspection commands.
	GroupInfo = "info"
)

var rootCmd = &cobra.Command{
	Use:   "ngsg-release",
	Short: "Changelog-first release automation",
	Long: `ngsg-release automates a repository release: it prepends a new version
entry to the changelog, then stages, commits, tags, and pushes through
git, stopping at the first step that fails.

The changelog format is flat: a version line, a "Date: ..." line,
free-text notes, and a blank separator per entry, newest first. Prior
content is carried over byte-for-byte; a release never rewrites history.

Source: https://github.com/cameron-jack/ngsg-release`,
	Example: `  # Full release: rewrite changelog, then commit, tag, and push
  ngsg-release publish v0.27.003 -m "* NEW: primer autoselection"

  # Changelog rewrite only, no git
  ngsg-release prepend v0.27.003 -m "* FIXED: plate layout off-by-one"

  # Inspect state before releasing
  ngsg-release check
  ngsg-release log --last 3`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInfo, Title: "Inspection Commands:"},
	)

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"ngsg-release {{.Version}} (commit %s, built %s)\n",
		version.Commit, version.BuildDate))

	// Flag parse failures become argument errors so they exit with the
	// invalid-arguments code instead of the general failure code.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(
			err.Error(),
			cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' to see valid flags",
		)
	})

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logger := func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[DEBUG] "+format+"\n", args...)
			}
			git.SetDebugLogger(logger)
			publish.SetDebugLogger(logger)
		}
	}
}

// Execute runs the root command. Interrupts cancel the command context so
// a blocked external command (a push waiting on credentials, say) dies
// with the run. Commands print their own structured diagnostics; the
// returned error only needs to reach the exit-code mapping in main.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
