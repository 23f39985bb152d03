// Package history records publish runs so past releases and their
// failures can be reviewed later.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// historyFileName is the history file kept inside the state directory.
const historyFileName = "history.yml"

// HistoryEntry records a single publish run. Entries are appended in run
// order, so the last entry is the most recent.
type HistoryEntry struct {
	// Timestamp is when the run started.
	Timestamp time.Time `yaml:"timestamp"`
	// Version is the released version label.
	Version string `yaml:"version"`
	// Branch is the branch that was pushed.
	Branch string `yaml:"branch"`
	// Remote is the push destination.
	Remote string `yaml:"remote"`
	// Steps lists the release steps that completed, in order.
	Steps []string `yaml:"steps,omitempty"`
	// FailedStep names the step that failed. Empty for a successful run.
	FailedStep string `yaml:"failed_step,omitempty"`
	// ExitCode is the exit code the run finished with.
	ExitCode int `yaml:"exit_code"`
	// Duration is the run duration in time.Duration string form.
	Duration string `yaml:"duration"`
}

// HistoryFile is the on-disk history document.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// LoadHistory reads the history file from stateDir.
// A missing file yields an empty history, not an error.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(historyPath(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}

	return &history, nil
}

// SaveHistory writes the history file, creating stateDir if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	if err := os.WriteFile(historyPath(stateDir), data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}

	return nil
}

// ClearHistory removes the history file. A missing file is not an error.
func ClearHistory(stateDir string) error {
	if err := os.Remove(historyPath(stateDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

// historyPath returns the history file path inside stateDir.
func historyPath(stateDir string) string {
	return filepath.Join(stateDir, historyFileName)
}
