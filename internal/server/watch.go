package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mwiater/metricview/internal/logging"
	"github.com/mwiater/metricview/internal/report"
)

// Watcher calls OnChange once a watched file has been quiet for the debounce interval.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
}

// NewWatcher watches path. Its directory is watched so editors that replace the file
// are seen too.
func NewWatcher(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{path: abs, watcher: watcher, debounce: debounce, onChange: onChange}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.LogEvent("watch %s: %v", w.path, err)
		}
	}
}

// Watch reloads the report from path whenever the file changes. A file that fails to
// load is logged and the previous report keeps serving.
func (s *Server) Watch(ctx context.Context, path string) error {
	w, err := NewWatcher(path, 0, func() {
		in, err := report.LoadInput(path)
		if err != nil {
			logging.LogEvent("reload %s: %v", path, err)
			return
		}
		if err := s.Reload(in); err != nil {
			logging.LogEvent("reload %s: %v", path, err)
			return
		}
		logging.LogEvent("reloaded %s", path)
	})
	if err != nil {
		return err
	}
	go w.Run(ctx)
	return nil
}
