package sequence

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler receives the definitions decoded from a changed file.
type ReloadHandler func(path string, defs []Definition)

// ErrorHandler receives watch or decode failures. The watcher keeps
// running after a failure; the previous definition set stays active.
type ErrorHandler func(path string, err error)

// WatcherOption configures a Watcher during creation.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a changed file is reloaded.
// Editors often produce several writes per save; only the last one in
// the window triggers a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher reloads a definition file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file by rename (the common atomic-save
// strategy) keep triggering reloads.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration

	onReload ReloadHandler
	onError  ErrorHandler

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
	stopped chan struct{}
}

// NewWatcher creates a watcher for one definition file. The file does
// not need to exist yet; creation triggers the first reload.
func NewWatcher(path string, onReload ReloadHandler, onError ErrorHandler, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatForPath(abs); err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: 100 * time.Millisecond,
		onReload: onReload,
		onError:  onError,
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Returns an error if the parent directory
// cannot be watched.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil || w.closed {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	go w.loop(fsw)
	return nil
}

// Stop stops watching and waits for the event loop to exit. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	fsw := w.fsw
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if fsw != nil {
		fsw.Close()
		<-w.stopped
	}
}

// loop consumes fsnotify events until the underlying watcher closes.
func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	defer close(w.stopped)
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(w.path, err)
			}
		}
	}
}

// schedule arms or re-arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload decodes the file and hands the result to the handler.
func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	defs, err := LoadFile(w.path)
	if err != nil {
		if w.onError != nil {
			w.onError(w.path, err)
		}
		return
	}
	if w.onReload != nil {
		w.onReload(w.path, defs)
	}
}
