package changelog

import (
	"fmt"
	"os"
	"strings"
)

// datePrefix marks the second line of every entry.
const datePrefix = "Date: "

// WriteError wraps a failure to place the rewritten changelog on disk.
// When it is returned the original file is still intact: the new content
// never reached the target path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing changelog %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DateLine normalizes a date input to the `Date: <value>` form.
// Callers may pass the bare value or the already-prefixed line.
func DateLine(date string) string {
	if strings.HasPrefix(date, "Date:") {
		return date
	}
	return datePrefix + date
}

// RenderEntry builds the header block for one release: the version line, the
// date line, the notes, and the blank separator. Empty notes still emit the
// notes newline and the separator.
func RenderEntry(rel Release) string {
	return rel.Version + "\n" + DateLine(rel.Date) + "\n" + rel.Notes + "\n\n"
}

// Rewrite prepends a new entry for rel to the changelog at path.
//
// Prior content is appended verbatim after the new header block; this path
// never parses or re-renders what is already in the file. Replacement is
// atomic: the full new content goes to a sibling temp file which is renamed
// over the original, so a failed write leaves the original bytes untouched.
//
// The file must already exist. A missing or unreadable changelog is a
// precondition failure and Rewrite never creates one; write-side failures
// are reported as *WriteError.
func Rewrite(path string, rel Release) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading changelog %s: %w", path, err)
	}

	updated := append([]byte(RenderEntry(rel)), existing...)
	return replaceFile(path, updated)
}

// replaceFile writes data to path using the temp file + rename pattern.
// The temp file lives next to the target so the rename stays on one
// filesystem, and it inherits the target's permission bits.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, info.Mode().Perm()); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Best effort cleanup
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
