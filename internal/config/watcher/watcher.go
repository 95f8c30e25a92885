// Package watcher reloads settings when their file changes on disk.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/logging"
)

// ErrWatcherClosed is returned when starting a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Handler receives freshly loaded settings, or the error that prevented
// loading them. Exactly one of s and err is non-nil.
type Handler func(s *config.Settings, err error)

// LoadFunc loads settings from a path.
type LoadFunc func(path string) (*config.Settings, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithLoadFunc replaces config.Load.
func WithLoadFunc(fn LoadFunc) Option {
	return func(w *Watcher) {
		w.load = fn
	}
}

// Watcher watches one settings file. The parent directory is watched
// rather than the file so that editors which replace the file on save
// are still seen.
type Watcher struct {
	mu sync.Mutex

	path     string
	handler  Handler
	load     LoadFunc
	debounce time.Duration
	logger   *logging.Logger

	fsw   *fsnotify.Watcher
	timer *time.Timer

	started bool
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher for the settings file at path.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		logger:   logging.Discard(),
		closeCh:  make(chan struct{}),
	}
	w.load = func(p string) (*config.Settings, error) {
		return config.Load(p, config.WithLogger(w.logger))
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins delivering reloads. Calling Start twice is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.started {
		return nil
	}
	w.started = true

	w.wg.Add(1)
	go w.processLoop()
	w.logger.Debug("watching %s", w.path)
	return nil
}

// Close stops the watcher and waits for its goroutine. A reload already
// scheduled by the debounce timer is cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("settings file event %s", ev.Op)
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// schedule coalesces bursts of events into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.debounce == 0 {
		go w.reload()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	s, err := w.load(w.path)
	if err != nil {
		w.logger.Warn("reload failed: %v", err)
		w.handler(nil, err)
		return
	}
	w.logger.Info("settings reloaded")
	w.handler(s, nil)
}
