package identity

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// WatchFile invalidates the loader whenever the identity file changes, so a
// standalone deployment picks up rotated credentials without a restart. It
// watches the containing directory because editors and config mounts replace
// the file rather than writing in place. Blocks until ctx is done.
func WatchFile(ctx context.Context, path string, loader *Loader, logger *observability.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	logger.WithField("path", target).Info("Watching identity file for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.WithField("op", event.Op.String()).Info("Identity file changed, invalidating cached config")
			loader.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Identity file watcher error")
		}
	}
}
