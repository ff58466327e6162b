package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultQuietPeriod = time.Second

// Watcher calls OnChange when the watched file is written, at most once per
// QuietPeriod.
type Watcher struct {
	FilePath    string
	OnChange    func()
	QuietPeriod time.Duration
	Logger      *log.Logger

	lastRead time.Time
	mu       sync.Mutex
}

// Run watches until ctx is done. The directory is watched rather than the
// file so editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return fmt.Errorf("watcher for %s has no OnChange", w.FilePath)
	}
	if w.QuietPeriod == 0 {
		w.QuietPeriod = defaultQuietPeriod
	}
	if w.Logger == nil {
		w.Logger = log.Default()
	}

	target, err := filepath.Abs(w.FilePath)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("watcher.Add: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher.Events closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.reactToFileWrite()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher.Errors closed")
			}
			w.Logger.Warn("watcher error", "file", w.FilePath, "err", err)
		}
	}
}

func (w *Watcher) reactToFileWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if time.Since(w.lastRead) < w.QuietPeriod {
		return
	}
	w.lastRead = time.Now()

	w.Logger.Debug("file changed", "file", w.FilePath)
	w.OnChange()
}
