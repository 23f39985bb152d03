package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes changelog entries to the writer with terminal
// styling. Each entry gets a bold version header with the release date
// dimmed, followed by its note lines wrapped to the terminal width.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i, e := range entries {
		if err := formatEntry(&e, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("formatting entry %s: %w", e.Version, err)
		}
	}

	return nil
}

// FormatYAML writes changelog entries to the writer as a YAML document.
// The output is stable: entries keep their file order (newest first).
func FormatYAML(entries []Entry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	return enc.Close()
}

// formatEntry writes a single entry: the header line, then each note line.
func formatEntry(e *Entry, w io.Writer, opts FormatOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}

	if err := writeEntryHeader(e, w, opts); err != nil {
		return err
	}

	for _, line := range strings.Split(e.Notes, "\n") {
		if err := writeNoteLine(line, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeEntryHeader writes the version and date line for an entry.
func writeEntryHeader(e *Entry, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		if e.Date == "" {
			_, err := fmt.Fprintf(w, "%s\n", e.Version)
			return err
		}
		_, err := fmt.Fprintf(w, "%s (%s)\n", e.Version, e.Date)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if e.Date == "" {
		_, err := fmt.Fprintf(w, "%s\n", bold(e.Version))
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n", bold(e.Version), dim("("+e.Date+")"))
	return err
}

// writeNoteLine writes a single note line with optional wrapping.
func writeNoteLine(line string, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, line)
		return err
	}

	wrapped := wrapText(line, width-len(prefix), "    ")
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, wrapped)
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
