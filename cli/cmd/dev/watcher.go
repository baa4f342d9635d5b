package dev

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
	"golang.org/x/sync/errgroup"

	"github.com/goldirana/agentforge/pkg/logger"
)

const (
	// File watcher debounce delay when templates.dev_debounce is unset
	defaultDebounceWait = 200 * time.Millisecond

	// Upper bound before a pending re-render runs regardless of new events
	maxDebounceWait = 2 * time.Second
)

// ignoredDirs contains directories that should be skipped during file watching
var ignoredDirs = map[string]bool{
	".git":          true,
	".idea":         true,
	".vscode":       true,
	"node_modules":  true,
	"__pycache__":   true,
	".pytest_cache": true,
	".venv":         true,
	"venv":          true,
	".cache":        true,
	"dist":          true,
	"build":         true,
}

// ignoredPatterns matches transient editor artifacts that must not trigger a
// re-render.
var ignoredPatterns = []string{
	"**/*~",
	"**/*.swp",
	"**/.DS_Store",
}

// watchAndRender watches the template directory and calls render after each
// debounced batch of changes. It returns when ctx is canceled.
func watchAndRender(
	ctx context.Context,
	dir string,
	wait time.Duration,
	render func(context.Context) error,
) error {
	log := logger.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched, err := addWatchDirs(watcher, dir)
	if err != nil {
		return err
	}
	log.Info("Watching template directory", "dir", dir, "watched_directories", watched)

	if wait <= 0 {
		wait = defaultDebounceWait
	}
	maxWait := maxDebounceWait
	if maxWait < wait {
		maxWait = 2 * wait
	}

	renderChan := make(chan struct{}, 1)
	debounced, cancelDebounce := debounce.NewWithMaxWait(wait, maxWait, func() {
		select {
		case renderChan <- struct{}{}:
		default:
			// re-render already pending
		}
	})
	defer cancelDebounce()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumeEvents(ctx, watcher, debounced)
	})
	g.Go(func() error {
		return renderOnSignal(ctx, renderChan, render)
	})
	return g.Wait()
}

// addWatchDirs registers dir and every non-ignored subdirectory with the
// watcher. fsnotify watches are per-directory, not recursive.
func addWatchDirs(watcher *fsnotify.Watcher, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk template directory %s: %w", root, err)
	}
	return count, nil
}

// consumeEvents forwards relevant file system events into the debounced
// trigger and keeps the watch set in sync with newly created directories.
func consumeEvents(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Debug("Context canceled, stopping file watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnored(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Debug("Detected template change, debouncing...", "file", event.Name)
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// renderOnSignal serializes re-renders. A failed re-render is reported and
// the loop keeps watching so the author can fix the template and save again.
func renderOnSignal(ctx context.Context, renderChan <-chan struct{}, render func(context.Context) error) error {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-renderChan:
			if err := render(ctx); err != nil {
				log.Error("Re-render failed", "error", err)
			}
		}
	}
}

// isIgnored reports whether a change at path should be dropped.
func isIgnored(path string) bool {
	slashPath := filepath.ToSlash(path)
	for _, segment := range strings.Split(slashPath, "/") {
		if ignoredDirs[segment] {
			return true
		}
	}
	for _, pattern := range ignoredPatterns {
		if matched, err := doublestar.Match(pattern, slashPath); err == nil && matched {
			return true
		}
	}
	return false
}
