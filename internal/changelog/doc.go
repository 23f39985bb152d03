// Package changelog manages the flat NGSgeno changelog file.
//
// This package implements:
//   - Prepending a new release entry (version, date line, notes) while
//     preserving all prior content byte-for-byte
//   - Atomic file replacement via temp file + rename
//   - Parsing the flat format into entries for CLI display
//   - Terminal and YAML rendering of parsed entries
//   - A file watcher for live changelog views
//
// The file format is line oriented: each entry is a version label on its own
// line, a `Date: <value>` line, free-text notes, and one blank separator
// line. The newest entry is always first. Only Rewrite mutates the file, and
// it never parses prior content; the parser exists for read-only views.
package changelog
