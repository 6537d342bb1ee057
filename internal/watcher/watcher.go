// file: internal/watcher/watcher.go
// version: 3.0.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package watcher

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jdfalk/dashboard-search/internal/records"
	"go.uber.org/zap"
)

// DefaultDebounce is the default debounce period.
const DefaultDebounce = 2 * time.Second

// Callback receives the dataset files that changed during one debounce
// window, sorted and de-duplicated.
type Callback func(paths []string)

// Watcher monitors a dataset directory and invokes a callback once changes
// have settled for the debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	callback  Callback
	log       *zap.Logger
	stop      chan struct{}
	stopped   chan struct{}
	mu        sync.Mutex
	timer     *time.Timer
	pending   map[string]struct{}
	running   bool
}

// New creates a Watcher. Pass 0 for debounce to use DefaultDebounce and nil
// for log to discard log output.
func New(callback Callback, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		debounce: debounce,
		callback: callback,
		log:      log,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		pending:  make(map[string]struct{}),
	}
}

// Start begins watching dir. It is safe to call only once; later calls are
// no-ops.
func (w *Watcher) Start(dir string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		err = fsw.Add(dir)
		if err != nil {
			fsw.Close()
		}
	}
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.mu.Lock()
	w.fsWatcher = fsw
	w.dir = dir
	w.mu.Unlock()

	go w.eventLoop()
	w.log.Info("watching dataset directory", zap.String("dir", dir))
	return nil
}

// Stop gracefully shuts down the watcher and waits for the event loop to
// exit. Pending changes are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running || w.fsWatcher == nil {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	w.fsWatcher.Close()
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	relevant := event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0
	if !relevant || !records.IsDatasetFile(event.Name) {
		return
	}
	w.schedule(filepath.Clean(event.Name))
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	w.timer = nil
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.log.Debug("dataset files changed", zap.String("dir", w.dir), zap.Strings("paths", paths))
	if w.callback != nil {
		w.callback(paths)
	}
}
