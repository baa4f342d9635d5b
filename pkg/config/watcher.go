package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers change notifications for a single configuration file.
//
// The watch is registered on the file's parent directory rather than the file
// itself: editors that save through an atomic rename (write to a temp file,
// rename over the target) would otherwise detach the watch after the first
// save because the watched inode disappears.
type Watcher struct {
	watcher   *fsnotify.Watcher
	callbacks []func()
	mu        sync.RWMutex
	target    string          // absolute path of the watched file
	ctx       context.Context // suppresses notifications once canceled
	startOnce sync.Once
	closeOnce sync.Once
}

// NewWatcher creates a configuration file watcher.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{watcher: fsw}, nil
}

// Watch starts watching the specified file for changes. A Watcher tracks one
// file; calling Watch again retargets it.
func (w *Watcher) Watch(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch directory of %s: %w", absPath, err)
	}
	w.mu.Lock()
	w.target = absPath
	w.ctx = ctx
	w.mu.Unlock()
	w.startOnce.Do(func() { go w.handleEvents() })
	return nil
}

// OnChange registers a callback invoked after the watched file changes.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// handleEvents drains file system events until the watcher is closed.
func (w *Watcher) handleEvents() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal; the next reload surfaces any real problem.
		}
	}
}

// dispatch fires callbacks for events that touch the watched file. Removes
// and renames notify too: an atomic save surfaces as rename+create, and the
// reload path tolerates a briefly missing file.
func (w *Watcher) dispatch(ev fsnotify.Event) {
	if !w.matchesTarget(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
		w.notifyCallbacks()
	}
}

// matchesTarget reports whether an event path refers to the watched file and
// whether notifications are still wanted.
func (w *Watcher) matchesTarget(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.target == "" {
		return false
	}
	if w.ctx != nil && w.ctx.Err() != nil {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.target
}

// notifyCallbacks invokes every registered callback outside the lock.
func (w *Watcher) notifyCallbacks() {
	w.mu.RLock()
	snapshot := append([]func(){}, w.callbacks...)
	w.mu.RUnlock()
	for _, fn := range snapshot {
		if fn != nil {
			fn()
		}
	}
}

// Close stops the watcher and releases resources. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}
