package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
)

var prependCmd = &cobra.Command{
	Use:   "prepend <version>",
	Short: "Prepend a changelog entry without touching git",
	Long: `Prepend a new entry to the changelog and stop: no staging, no commit,
no tag, no push.

The new entry is the version line, a Date line, the notes, and a blank
separator; everything already in the file follows byte-for-byte. Empty
notes are allowed here, unlike publish, since nothing needs a commit
message.

Examples:
  ngsg-release prepend v0.27.003 -m "* NEW: primer autoselection"
  ngsg-release prepend v0.27.003 -d "Date: 2026-08-25" -m "* fix"
  ngsg-release prepend v0.27.003 --changelog docs/changelog.txt`,
	Args:         requireVersionArg,
	SilenceUsage: true,
	RunE:         runPrepend,
}

func init() {
	prependCmd.GroupID = GroupRelease
	rootCmd.AddCommand(prependCmd)

	prependCmd.Flags().StringP("notes", "m", "", "Entry notes")
	prependCmd.Flags().String("notes-file", "", "Read entry notes from a file (- for stdin)")
	prependCmd.Flags().StringP("date", "d", "", "Date line value (default: today per date_format)")
	prependCmd.Flags().String("changelog", "", "Changelog file to rewrite")
	prependCmd.Flags().StringP("repo", "C", "", "Repository directory")
}

func runPrepend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	applyCommonOverrides(cmd, cfg)

	notes, err := resolveNotes(cmd)
	if err != nil {
		return err
	}

	changelogPath := resolveChangelogPath(cfg)
	rel := changelog.Release{
		Version: args[0],
		Date:    resolveDate(cmd, cfg),
		Notes:   notes,
	}

	if err := rewriteChangelog(changelogPath, rel); err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Prepended %s to %s\n", rel.Version, changelogPath)
	}
	return nil
}
