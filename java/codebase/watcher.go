package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/jresolve/java/compile"
)

// FileWatcher polls the codebase root for added, modified and deleted
// source files and feeds each batch of changes to the codebase.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	scanMu       sync.Mutex
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(changed []string)
}

type WatcherOption func(*FileWatcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		w.pollInterval = d
	}
}

// OnChange registers a callback run after each batch is recompiled, with
// the affected paths in lexical order.
func OnChange(fn func(changed []string)) WatcherOption {
	return func(w *FileWatcher) {
		w.onChange = fn
	}
}

func NewFileWatcher(c *Codebase, opts ...WatcherOption) *FileWatcher {
	w := &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *FileWatcher) Start() {
	go w.run()
}

// Stop ends polling. It may be called more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan performs one poll and returns the paths it found changed. It is
// safe to call while the watcher is running.
func (w *FileWatcher) Scan() []string {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	current := make(map[string]bool)
	changed := make(map[string][]byte)

	filepath.WalkDir(w.codebase.RootDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.codebase.RootDir() && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !compile.IsSource(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		current[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("watch %s: %s", path, err)
			return nil
		}
		w.modTimes[path] = info.ModTime()
		changed[path] = content
		return nil
	})

	var removed []string
	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			removed = append(removed, path)
		}
	}
	if len(changed) == 0 && len(removed) == 0 {
		return nil
	}

	if err := w.codebase.UpdateFiles(changed, removed...); err != nil {
		log.Warningf("%s", err)
	}
	paths := append([]string(nil), removed...)
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	if w.onChange != nil {
		w.onChange(paths)
	}
	return paths
}
