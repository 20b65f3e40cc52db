// Package logwatch tracks the newest log file in a directory so that
// latest-log polls do not rescan it on every request.
package logwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a log directory and remembers the newest *.log file,
// meaning the one most recently created or written to.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher

	mu     sync.RWMutex
	latest string // bare filename, empty when unknown
}

// New creates a watcher for dir and starts tracking. The directory must
// exist.
func New(dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		watcher: fsWatcher,
	}

	if err := w.rescan(); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Latest returns the filename of the newest log file, or "" when the
// watcher does not currently know one.
func (w *Watcher) Latest() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".log") {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.mu.Lock()
				w.latest = name
				w.mu.Unlock()
			} else if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				if name == w.latest {
					w.latest = ""
				}
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Drop the cache so readers fall back to scanning
			w.mu.Lock()
			w.latest = ""
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) rescan() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = entry.Name()
			latestMod = info.ModTime()
		}
	}

	w.mu.Lock()
	w.latest = latest
	w.mu.Unlock()
	return nil
}
