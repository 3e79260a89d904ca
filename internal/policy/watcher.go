package policy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads the policy catalog when its file changes. On a
// successful reload it hands a freshly compiled Matcher to the swap
// callback; a broken file keeps the previous matcher in place.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	swap     func(*Matcher)
	debounce time.Duration
}

// NewWatcher creates a file watcher for the catalog at path.
func NewWatcher(path string, swap func(*Matcher)) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog path is required for watching")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot watch catalog: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	return &Watcher{
		watcher:  w,
		path:     path,
		swap:     swap,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Run watches for catalog changes and reloads. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Debounce: wait for the last write before reloading
	var pending *time.Timer

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(w.debounce, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "catalog watcher error: %v\n", err)
		}
	}
}

func (w *Watcher) reload() {
	catalog, err := LoadCatalog(w.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog hot-reload failed: %v\n", err)
		return
	}
	w.swap(NewMatcher(catalog))
	fmt.Fprintf(os.Stderr, "catalog hot-reload: %d policies loaded\n", len(catalog.Policies))
}
