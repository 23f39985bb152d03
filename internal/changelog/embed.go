package changelog

import (
	_ "embed"
	"fmt"
)

//go:embed changelog.txt
var embeddedChangelog []byte

// Embedded returns the raw embedded changelog.txt content.
// This content is embedded at build time and represents
// the tool's own release history as of that build.
func Embedded() []byte {
	return embeddedChangelog
}

// LoadEmbedded parses the embedded changelog.txt.
// This is useful for displaying the tool's release notes in the CLI
// without requiring network access or file system access.
func LoadEmbedded() (*Changelog, error) {
	if len(embeddedChangelog) == 0 {
		return nil, fmt.Errorf("embedded changelog is empty (binary may have been built without embedded content)")
	}

	return Parse(string(embeddedChangelog)), nil
}
