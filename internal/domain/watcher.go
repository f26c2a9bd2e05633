package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// DefaultDebounce is how long the watcher waits for project file events to
// settle before starting a new run.
const DefaultDebounce = 500 * time.Millisecond

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	CopyArgs
	Debounce time.Duration
}

// Watcher re-runs the copy workflow whenever project files change.
type Watcher interface {
	Watch(ctx context.Context, args WatchArgs) error
}

type watcher struct {
	workflow Workflow
}

// NewWatcher creates a Watcher driving workflow.
func NewWatcher(workflow Workflow) Watcher {
	return &watcher{workflow: workflow}
}

// Watch performs an initial run, then one run per settled burst of project
// file events, until ctx is cancelled. Each run gets its own registry; a
// failing run is logged and does not stop the watcher.
func (w *watcher) Watch(ctx context.Context, args WatchArgs) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}

	defer func() {
		if err := fsWatcher.Close(); err != nil {
			slog.Error("Failed to close file watcher", "error", err)
		}
	}()

	dir := string(sourceDir(args.Source))
	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debounce := args.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.runOnce(ctx, args.CopyArgs)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !isProjectEvent(event) {
				continue
			}

			slog.Debug("project file event", "op", event.Op.String(), "path", event.Name)
			timer.Reset(debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			slog.Error("Watcher error", "error", err)

		case <-timer.C:
			w.runOnce(ctx, args.CopyArgs)
		}
	}
}

func (w *watcher) runOnce(ctx context.Context, args CopyArgs) {
	if _, err := w.workflow.Copy(ctx, args); err != nil {
		slog.Error("Copy run failed", "destination", args.Destination, "error", err)
	}
}

func isProjectEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != m.ProjectFileExt {
		return false
	}

	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
