package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hiegraph/hiegraph/internal/config"
	"github.com/hiegraph/hiegraph/internal/debug"
)

// Watcher re-runs the pipeline when dump files change. Events are debounced
// so a compiler rewriting many dumps at once triggers a single run.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cfg      *config.Config
	onChange func()

	mu      sync.Mutex
	pending *time.Timer
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over the configured project root. onChange is
// called from the watcher goroutine after the debounce window closes.
func NewWatcher(cfg *config.Config, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		watcher:  w,
		cfg:      cfg,
		onChange: onChange,
	}
	if err := fw.addRecursive(cfg.Project.Root); err != nil {
		w.Close()
		return nil, err
	}
	return fw, nil
}

// addRecursive watches root and every subdirectory; fsnotify does not recurse
// on its own.
func (fw *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// Start runs the event loop until ctx is cancelled.
func (fw *Watcher) Start(ctx context.Context) {
	fw.wg.Add(1)
	go fw.loop(ctx)
}

func (fw *Watcher) loop(ctx context.Context) {
	defer fw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			debug.Logf("watcher: %v", err)
		}
	}
}

func (fw *Watcher) handleEvent(event fsnotify.Event) {
	// New directories need their own watch; dump files trigger a rerun.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = fw.addRecursive(event.Name)
			return
		}
	}
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	fw.schedule()
}

// schedule arms (or re-arms) the debounce timer.
func (fw *Watcher) schedule() {
	debounce := time.Duration(fw.cfg.Pipeline.WatchDebounceMs) * time.Millisecond
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.pending != nil {
		fw.pending.Stop()
	}
	fw.pending = time.AfterFunc(debounce, fw.onChange)
}

// Close stops watching and waits for the event loop to exit. Cancel the
// Start context before calling Close.
func (fw *Watcher) Close() error {
	err := fw.watcher.Close()
	fw.wg.Wait()
	fw.mu.Lock()
	if fw.pending != nil {
		fw.pending.Stop()
	}
	fw.mu.Unlock()
	return err
}
