package changelog

// Release describes one release event: the version label, the date for the
// `Date:` line, and the free-text notes that head the new entry. It is
// constructed once per run and consumed immediately.
type Release struct {
	Version string
	Date    string
	Notes   string
}

// Entry is one parsed changelog block. The Date field holds the value
// without the `Date: ` prefix; Notes holds the note lines joined by
// newlines with the trailing blank separator trimmed.
type Entry struct {
	Version string `yaml:"version"`
	Date    string `yaml:"date"`
	Notes   string `yaml:"notes"`
}

// Changelog is the parsed, read-only view of the flat changelog file.
// Entries appear in file order, newest first. Preamble preserves any
// content found before the first recognizable entry.
type Changelog struct {
	Entries  []Entry
	Preamble string
}

// EntryCount returns the number of parsed entries.
func (c *Changelog) EntryCount() int {
	return len(c.Entries)
}
