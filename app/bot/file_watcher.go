package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch starts watching file for changes and calls onChange callback.
// delay is a time to wait after the first change before the call, to collapse bursts of writes.
// The parent directory is watched, so files replaced by rename are still tracked. Blocks until ctx is done.
func watch(ctx context.Context, path string, delay time.Duration, onChange func() error) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", dir, err)
	}
	log.Printf("[DEBUG] watching %q for changes", path)

	reloadTimer := time.NewTimer(delay)
	defer reloadTimer.Stop()
	reloadPending := false

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping watcher for %s, %v", path, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !reloadPending {
				reloadPending = true
				reloadTimer.Reset(delay)
			}
		case <-reloadTimer.C:
			if !reloadPending {
				continue
			}
			reloadPending = false
			if e := onChange(); e != nil {
				log.Printf("[WARN] failed to reload updated file %s: %v", path, e)
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}
