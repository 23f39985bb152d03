package changelog

import (
	"fmt"
	"os"
	"strings"
)

// Load reads and parses the changelog at path for display.
func Load(path string) (*Changelog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse splits flat changelog content into entries.
//
// An entry starts at a non-blank line immediately followed by a `Date:`
// line; its notes run until the next entry or the end of input, with
// trailing blank separator lines trimmed. Anything before the first entry
// is kept verbatim as the preamble. This is a display heuristic over free
// text: a note line that is itself followed by a `Date:` line would be
// read as a new entry.
func Parse(content string) *Changelog {
	lines := strings.Split(content, "\n")
	log := &Changelog{}

	i := 0
	var preamble []string
	for i < len(lines) && !isEntryStart(lines, i) {
		preamble = append(preamble, lines[i])
		i++
	}
	if len(preamble) > 0 {
		log.Preamble = strings.Join(preamble, "\n")
	}

	for i < len(lines) {
		entry, next := parseEntry(lines, i)
		log.Entries = append(log.Entries, entry)
		i = next
	}

	return log
}

// isEntryStart reports whether lines[i] begins an entry: a non-blank
// version line with a `Date:` line directly below it.
func isEntryStart(lines []string, i int) bool {
	return i+1 < len(lines) &&
		strings.TrimSpace(lines[i]) != "" &&
		strings.HasPrefix(lines[i+1], "Date:")
}

// parseEntry consumes one entry starting at lines[i] and returns it with
// the index of the line following the entry.
func parseEntry(lines []string, i int) (Entry, int) {
	entry := Entry{
		Version: lines[i],
		Date:    strings.TrimSpace(strings.TrimPrefix(lines[i+1], "Date:")),
	}

	j := i + 2
	var notes []string
	for j < len(lines) && !isEntryStart(lines, j) {
		notes = append(notes, lines[j])
		j++
	}

	// Drop the blank separator (and any stray trailing blanks) from the
	// parsed notes; the file keeps them, the view does not.
	for len(notes) > 0 && strings.TrimSpace(notes[len(notes)-1]) == "" {
		notes = notes[:len(notes)-1]
	}
	entry.Notes = strings.Join(notes, "\n")

	return entry, j
}
