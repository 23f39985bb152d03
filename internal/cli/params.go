package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameron-jack/ngsg-release/internal/changelog"
	"github.com/cameron-jack/ngsg-release/internal/config"
	clierrors "github.com/cameron-jack/ngsg-release/internal/errors"
)

// requireVersionArg validates the single positional version argument.
func requireVersionArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return clierrors.NewArgumentErrorWithUsage(
			"exactly one version argument is required",
			cmd.UseLine(),
			"Pass the version label to release, e.g. v0.27.003",
		)
	}
	if args[0] == "" {
		return clierrors.NewArgumentErrorWithUsage(
			"version must not be empty",
			cmd.UseLine(),
		)
	}
	return nil
}

// loadConfiguration loads the layered configuration. When the command
// carries a --repo override, the project config is read from that
// repository instead of the working directory.
func loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	var opts config.LoadOptions
	if cmd.Flags().Changed("repo") {
		repo, _ := cmd.Flags().GetString("repo")
		opts.ProjectConfigPath = filepath.Join(repo, ".ngsg-release", "config.yml")
	}

	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration,
			"failed to load configuration",
			"Check .ngsg-release/config.yml for syntax errors",
			"Remove the file to fall back to defaults",
		)
	}
	return cfg, nil
}

// applyCommonOverrides copies the shared release flags over the loaded
// configuration. Only flags the user actually set override config values,
// so an unset flag never clobbers a configured one.
func applyCommonOverrides(cmd *cobra.Command, cfg *config.Configuration) {
	if cmd.Flags().Changed("changelog") {
		cfg.Changelog, _ = cmd.Flags().GetString("changelog")
	}
	if cmd.Flags().Changed("repo") {
		cfg.Repo, _ = cmd.Flags().GetString("repo")
	}
	if cmd.Flags().Changed("remote") {
		cfg.Remote, _ = cmd.Flags().GetString("remote")
	}
	if cmd.Flags().Changed("branch") {
		cfg.Branch, _ = cmd.Flags().GetString("branch")
	}
}

// resolveChangelogPath resolves the changelog location against the
// repository directory. Absolute paths are taken as-is.
func resolveChangelogPath(cfg *config.Configuration) string {
	if filepath.IsAbs(cfg.Changelog) {
		return cfg.Changelog
	}
	return filepath.Join(cfg.Repo, cfg.Changelog)
}

// resolveDate returns the Date line value: the --date flag when set,
// otherwise today in the configured layout.
func resolveDate(cmd *cobra.Command, cfg *config.Configuration) string {
	if cmd.Flags().Changed("date") {
		date, _ := cmd.Flags().GetString("date")
		return date
	}
	return time.Now().Format(cfg.DateFormat)
}

// resolveNotes reads the release notes from --notes or --notes-file.
// The two flags are mutually exclusive; a notes-file of "-" reads stdin.
// A trailing newline from file input is trimmed so the entry's blank
// separator stays a single line.
func resolveNotes(cmd *cobra.Command) (string, error) {
	notes, _ := cmd.Flags().GetString("notes")
	notesFile, _ := cmd.Flags().GetString("notes-file")

	if notes != "" && notesFile != "" {
		return "", clierrors.InvalidFlagCombination("--notes and --notes-file",
			"Pass the notes inline or in a file, not both")
	}

	if notesFile == "" {
		return notes, nil
	}

	var data []byte
	var err error
	if notesFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(notesFile)
	}
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Argument,
			"failed to read notes file",
			"Check the path passed to --notes-file",
		)
	}

	return strings.TrimRight(string(data), "\n"), nil
}

// rewriteChangelog performs the changelog rewrite, mapping failures onto
// the error taxonomy: a missing or unreadable file is a precondition
// failure, a failed replacement is a write failure. In either case the
// original file is untouched.
func rewriteChangelog(path string, rel changelog.Release) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return clierrors.ChangelogNotFound(path)
		}
		return clierrors.ChangelogNotReadable(path, err)
	}

	if err := changelog.Rewrite(path, rel); err != nil {
		var writeErr *changelog.WriteError
		if errors.As(err, &writeErr) {
			return clierrors.ChangelogWriteFailed(path, writeErr.Err)
		}
		return clierrors.ChangelogNotReadable(path, err)
	}
	return nil
}

// printEntryPreview shows the entry exactly as it will head the changelog.
func printEntryPreview(cmd *cobra.Command, rel changelog.Release) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "New changelog entry:")
	for _, line := range strings.Split(strings.TrimRight(changelog.RenderEntry(rel), "\n"), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out)
}

// promptYesNo asks a yes/no question on the command's streams. Anything
// but y/yes declines.
func promptYesNo(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))

	return answer == "y" || answer == "yes"
}
