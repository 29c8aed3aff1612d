package watcher

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event represents a change to a watched path.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Gone reports whether the path was removed or renamed away.
func (e Event) Gone() bool {
	return e.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

// Watcher monitors files (log files, device nodes) using OS-level notifications.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
	log    *slog.Logger
}

// New creates a Watcher for the given glob patterns.
// Patterns are expanded at startup and the resulting files are watched.
func New(patterns []string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
		log:    logger,
	}

	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			w.log.Warn("failed to expand pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, m := range matches {
			if err := w.Add(m); err != nil {
				w.log.Warn("cannot watch path", "path", m, "error", err)
			}
		}
	}

	return w, nil
}

// Add watches a single path without glob expansion.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.paths = append(w.paths, abs)
	return nil
}

// AddNode watches the directory holding path and returns the absolute node
// path that removal events will carry. Watching the node itself is not enough
// while something holds it open: the kernel reports the unlink as an attribute
// change and only deletes the inode after the last close.
func (w *Watcher) AddNode(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return "", err
	}
	w.paths = append(w.paths, abs)
	return abs, nil
}

// Start begins listening for file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0,
				ev.Op&fsnotify.Create != 0,
				ev.Op&fsnotify.Remove != 0,
				ev.Op&fsnotify.Rename != 0:
				select {
				case w.Events <- Event{Path: ev.Name, Op: ev.Op}:
				case <-ctx.Done():
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// Paths returns the list of files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// ReWatch adds a path back to the watcher (used after rotation).
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like /var/log/**/*.log via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
