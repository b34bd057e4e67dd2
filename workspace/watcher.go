package workspace

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/phyoewaiaung/network-map/netmap"
)

// Loader reads a map document and watches it for changes, so long-running
// hosts can pick up edits made to the file behind them.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *netmap.Map
	onChange []func(*netmap.Map)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.current = m
	return l, nil
}

// Map returns the current (latest) document.
func (l *Loader) Map() *netmap.Map {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Path returns the file the loader reads from.
func (l *Loader) Path() string {
	return l.path
}

// OnChange registers a callback invoked whenever the document reloads.
func (l *Loader) OnChange(fn func(*netmap.Map)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the document on file
// changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("map watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("map watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					// A half-written or invalid file keeps the
					// previous document.
					if _, err := l.Reload(); err != nil {
						continue
					}
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the document.
func (l *Loader) Reload() (*netmap.Map, error) {
	m, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = m
	callbacks := make([]func(*netmap.Map), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(m)
	}
	return m, nil
}
