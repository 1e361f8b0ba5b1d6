package preset

import (
	"os"
	"path/filepath"
	"time"
)

// FileWatcher polls modification times under a preset directory and
// triggers a callback on change.
type FileWatcher struct {
	Dir       string
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	stopCh    chan struct{}
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for dir/default.yaml and dir/presets/*.yaml.
func NewFileWatcher(dir string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Dir:       dir,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *FileWatcher) Start() {
	ticker := time.NewTicker(w.Interval)
	// prime cache before returning so edits right after Start are seen
	w.scanAll(true)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) paths() []string {
	paths := []string{filepath.Join(w.Dir, "default.yaml")}
	more, _ := filepath.Glob(filepath.Join(w.Dir, "presets", "*.yaml"))
	return append(paths, more...)
}

// scanAll checks mtimes and invokes onChange for files that are new or
// changed since last scan. Removed files are reported once.
func (w *FileWatcher) scanAll(prime bool) {
	seen := make(map[string]bool)
	for _, p := range w.paths() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || w.onChange == nil {
			continue
		}
		if !ok || mt.After(last) {
			w.onChange(p)
		}
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			if !prime && w.onChange != nil {
				w.onChange(p)
			}
		}
	}
}
