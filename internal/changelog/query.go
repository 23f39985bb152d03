package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// GetVersion retrieves the entry for a specific version label.
// The match is exact: the tool never interprets version numbers.
// Returns VersionNotFoundError if the version doesn't exist.
func (c *Changelog) GetVersion(version string) (*Entry, error) {
	for i := range c.Entries {
		if c.Entries[i].Version == version {
			return &c.Entries[i], nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: c.ListVersions(),
	}
}

// Latest returns the newest entry, or nil for an empty changelog.
// The file keeps the newest entry first, so this is the head.
func (c *Changelog) Latest() *Entry {
	if len(c.Entries) == 0 {
		return nil
	}
	return &c.Entries[0]
}

// ListVersions returns all version labels in file order (newest first).
func (c *Changelog) ListVersions() []string {
	versions := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		versions[i] = e.Version
	}
	return versions
}

// GetLastN retrieves the N most recent entries, newest first.
// If N exceeds the total number of entries, all entries are returned.
func (c *Changelog) GetLastN(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	if len(c.Entries) <= n {
		return c.Entries
	}
	return c.Entries[:n]
}
