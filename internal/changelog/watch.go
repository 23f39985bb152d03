package changelog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a changelog file whenever it changes on disk.
// It uses fsnotify for efficient change detection with periodic
// polling as backup for missed events.
//
// The watcher observes the parent directory rather than the file
// itself: the file is replaced by rename on every prepend, and a
// watch on the old inode would be lost after the first update.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	closed  bool
}

// NewWatcher creates a Watcher for the given changelog path.
// The file must exist when Watch is first called.
func NewWatcher(path string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:    path,
		watcher: watcher,
	}, nil
}

// Watch streams parsed changelogs as the file changes.
// The current contents are delivered first, then a new parse after
// every detected change. The channel is closed when the context is
// cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan *Changelog, error) {
	parentDir := filepath.Dir(w.path)
	if err := w.watcher.Add(parentDir); err != nil {
		return nil, fmt.Errorf("watching directory: %w", err)
	}

	// Baseline before the initial load so a write landing between the
	// two is redelivered rather than missed.
	lastMod, lastSize := w.fileState()

	initial, err := Load(w.path)
	if err != nil {
		return nil, err
	}

	updates := make(chan *Changelog, 1)
	updates <- initial

	go w.watchLoop(ctx, updates, lastMod, lastSize)

	return updates, nil
}

// watchLoop delivers a fresh parse after each change to the file.
func (w *Watcher) watchLoop(ctx context.Context, updates chan<- *Changelog, lastMod time.Time, lastSize int64) {
	defer close(updates)

	// Poll periodically as backup for missed events
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				lastMod, lastSize = w.reloadIfChanged(ctx, updates, lastMod, lastSize)
			}
		case <-ticker.C:
			lastMod, lastSize = w.reloadIfChanged(ctx, updates, lastMod, lastSize)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Continue on errors, polling will handle reloads
		}
	}
}

// reloadIfChanged parses and delivers the file if its mtime or size moved.
// Events and polling both funnel through here, so a single change is
// never delivered twice.
func (w *Watcher) reloadIfChanged(ctx context.Context, updates chan<- *Changelog, lastMod time.Time, lastSize int64) (time.Time, int64) {
	mod, size := w.fileState()
	if mod.Equal(lastMod) && size == lastSize {
		return lastMod, lastSize
	}

	parsed, err := Load(w.path)
	if err != nil {
		// File may be mid-replace; the next event or tick retries
		return lastMod, lastSize
	}

	select {
	case <-ctx.Done():
	case updates <- parsed:
	}

	return mod, size
}

// fileState returns the current mtime and size of the watched file.
func (w *Watcher) fileState() (time.Time, int64) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, -1
	}
	return info.ModTime(), info.Size()
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// Path returns the path being watched.
func (w *Watcher) Path() string {
	return w.path
}
