package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/ngsg-release/config.yml
// - macOS: ~/Library/Application Support/ngsg-release/config.yml
// - Windows: %APPDATA%\ngsg-release\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ngsg-release", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ngsg-release"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .ngsg-release/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".ngsg-release", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".ngsg-release"
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON
// config file: .ngsg-release/config.json
func LegacyProjectConfigPath() string {
	return filepath.Join(".ngsg-release", "config.json")
}
