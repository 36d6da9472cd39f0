// Package watch reloads the content bundle when files under the content
// directory change.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a path must stay quiet before the callback
	// runs. Default 200ms.
	Debounce time.Duration
	// IgnorePatterns are matched against base names with filepath.Match.
	IgnorePatterns []string
}

// DefaultOptions ignores editor swap and backup files.
func DefaultOptions() Options {
	return Options{
		Debounce:       200 * time.Millisecond,
		IgnorePatterns: []string{".*.swp", "*~", ".#*", "4913"},
	}
}

// ChangeFunc receives the paths that changed during one burst.
type ChangeFunc func(paths []string)

// Watcher watches a directory tree and calls onChange once per burst of
// events.
//
// Usage:
//
//	w, err := watch.New(onChange, watch.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(contentDir); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	options  Options
	logger   *slog.Logger

	// Debouncing. One timer per path; the burst fires when the last
	// pending timer fires.
	debounceMu     sync.Mutex
	debounceTimers map[string]debounceTimer
	debounceGen    uint64
	pending        map[string]struct{}

	// Lifecycle
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher. It does not watch anything until Start.
func New(onChange ChangeFunc, options Options, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.Debounce <= 0 {
		options.Debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:        fw,
		onChange:       onChange,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]debounceTimer),
		pending:        make(map[string]struct{}),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and every directory below it.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootPath && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}
	if len(w.watcher.WatchList()) == 0 {
		return fmt.Errorf("failed to watch %s", rootPath)
	}

	w.logger.Info("content watcher started", "root", rootPath)
	go w.eventLoop()
	return nil
}

// Stop cancels pending callbacks and closes the watcher. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, t := range w.debounceTimers {
		t.timer.Stop()
	}
	w.debounceTimers = make(map[string]debounceTimer)
	w.pending = make(map[string]struct{})
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("content watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("content watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) || event.Op == fsnotify.Chmod {
		return
	}
	w.logger.Debug("content event", "op", event.Op.String(), "file", event.Name)

	// New directories (a new snippet folder) need their own watch.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
			}
		}
	}
	w.debounce(event.Name)
}

// debounceTimer is the armed timer for one path. gen tells a current
// callback from one that fired before it was replaced.
type debounceTimer struct {
	timer *time.Timer
	gen   uint64
}

// debounce restarts the timer for path. When the last pending timer
// fires, onChange receives every path seen in the burst.
func (w *Watcher) debounce(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if t, ok := w.debounceTimers[path]; ok {
		t.timer.Stop()
	}
	w.pending[path] = struct{}{}
	w.debounceGen++
	gen := w.debounceGen
	w.debounceTimers[path] = debounceTimer{
		timer: time.AfterFunc(w.options.Debounce, func() {
			w.fire(path, gen)
		}),
		gen: gen,
	}
}

// fire handles the timer armed as gen for path. A callback whose timer
// was already replaced is ignored.
func (w *Watcher) fire(path string, gen uint64) {
	w.debounceMu.Lock()
	if t, ok := w.debounceTimers[path]; !ok || t.gen != gen {
		w.debounceMu.Unlock()
		return
	}
	delete(w.debounceTimers, path)
	if len(w.debounceTimers) > 0 {
		w.debounceMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.debounceMu.Unlock()

	if len(paths) == 0 {
		return
	}
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	w.onChange(paths)
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	switch base {
	case "node_modules", ".git", ".DS_Store":
		return true
	}
	return false
}

// Stats reports watcher state.
type Stats struct {
	PendingPaths int
	IsRunning    bool
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.debounceMu.Lock()
	pending := len(w.pending)
	w.debounceMu.Unlock()
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{PendingPaths: pending, IsRunning: !w.stopped}
}
