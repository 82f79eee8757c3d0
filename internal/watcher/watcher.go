// Package watcher re-runs a pipeline when the dependency manifest
// changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/logger"
)

// defaultInterval is the minimum spacing between triggered runs.
// Editors and package managers touch the manifest several times per save.
const defaultInterval = 2 * time.Second

// Watcher observes a single file and invokes a callback on change,
// rate-limited so bursts of filesystem events trigger one run.
type Watcher struct {
	path     string
	limiter  *rate.Limiter
	onChange func(context.Context)
}

// New creates a watcher for the given file.
// The callback runs on the watcher's goroutine; a slow callback delays
// further event processing.
func New(path string, onChange func(context.Context)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no file to watch", domain.ErrInvalidInput)
	}
	if onChange == nil {
		return nil, fmt.Errorf("%w: no change callback", domain.ErrInvalidInput)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		limiter:  rate.NewLimiter(rate.Every(defaultInterval), 1),
		onChange: onChange,
	}, nil
}

// Run watches until the context is cancelled.
// The parent directory is watched rather than the file itself: most
// tools replace the file on write, which would drop a direct watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching %s", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.limiter.Allow() {
				logger.Debug("change on %s debounced", w.path)
				continue
			}
			logger.Debug("change on %s (%s)", w.path, event.Op)
			w.onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
