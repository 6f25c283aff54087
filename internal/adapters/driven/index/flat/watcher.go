package flat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// debounceDelay coalesces the burst of events a staged publish emits
// into a single reload.
const debounceDelay = 500 * time.Millisecond

// Watch observes the artifact directory and invokes onChange after the
// manifest is replaced. It blocks until the context is cancelled.
// Ingestion publishes by renaming a staging directory into place, so a
// single rename event marks a complete, consistent set of artifacts.
func Watch(ctx context.Context, dir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The artifact directory may not exist before the first ingestion;
	// create it so watching can start ahead of it.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger.Info("Watching %s for index updates", dir)

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != manifestFile {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			logger.Debug("Index change detected: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-fire:
			onChange()
		}
	}
}
