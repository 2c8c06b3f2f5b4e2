package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/quotecard/internal/checksum"
)

const watchDebounce = 200 * time.Millisecond

// ChangeCallback is called when the blob behind a key changed on disk.
type ChangeCallback func(key string)

// Watch observes the FS data directory and calls cb when the file backing key
// is created, rewritten, or removed by anyone, this process included. Bursts
// of events are debounced and a change is only reported when the content
// checksum actually differs. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, f *FS, key string, logger *slog.Logger, cb ChangeCallback) error {
	target, err := f.Path(key)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: atomic renames replace the file's inode.
	if err := w.Add(f.root); err != nil {
		return err
	}

	last := fileSum(target)
	logger.Info("watcher: started", slog.String("path", target))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			debounceCh = nil
			sum := fileSum(target)
			if sum == last {
				continue
			}
			last = sum
			logger.Debug("watcher: blob changed", slog.String("key", key))
			if cb != nil {
				cb(key)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			debounceCh = debounce.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// fileSum returns the checksum of path, or "" when it does not exist.
func fileSum(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return checksum.Sum(data)
}
