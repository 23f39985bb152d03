package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# ngsg-release Configuration
# Project config: .ngsg-release/config.yml
# User config:    ~/.config/ngsg-release/config.yml (Linux)
# Every key can also be set via an NGSG_RELEASE_<KEY> environment variable.

# Changelog settings
changelog: changelog.txt              # Changelog file to rewrite
date_format: "2006-01-02"             # Go time layout for the default Date line

# Repository settings
repo: .                               # Repository directory
remote: origin                        # Git remote to push to
branch: ""                            # Branch to push (empty = current branch)

# History settings
state_dir: ~/.ngsg-release/state      # Directory for release history records
max_history_entries: 500              # Max release history entries to retain

# Prompt settings
skip_confirmations: false             # Skip the publish confirmation prompt
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// changelog: The changelog file the release prepends to, resolved
		// against the repository directory unless absolute.
		"changelog": "changelog.txt",
		// repo: The repository directory release commands operate on.
		"repo": ".",
		// remote: The git remote the branch and tag are pushed to.
		"remote": "origin",
		// branch: The branch pushed during publish. Empty means the current
		// branch, resolved when the release runs.
		"branch": "",
		// date_format: Go time layout used to build the Date line when no
		// --date flag is given.
		"date_format": "2006-01-02",
		// state_dir: Directory for release history records.
		"state_dir": "~/.ngsg-release/state",
		// max_history_entries: Maximum number of release history entries to
		// retain. Oldest entries are pruned when this limit is exceeded.
		"max_history_entries": 500,
		// skip_confirmations: Confirmation prompts enabled by default.
		"skip_confirmations": false,
	}
}
