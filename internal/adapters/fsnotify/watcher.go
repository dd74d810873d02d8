// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a single file through its parent directory, so editors that save by
// writing a temp file and renaming it over the original are still seen, and
// coalesces bursts of events into one callback after the file goes quiet.
package fsnotify

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/acnh/internal/ports"
)

// DefaultDebounce is the quiet period used when NewWatcher is given zero.
const DefaultDebounce = 100 * time.Millisecond

// ErrAlreadyWatching is returned by a second Watch call on the same Watcher.
var ErrAlreadyWatching = errors.New("watcher already started")

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex

	// OnError, when set before Watch, receives errors reported by fsnotify.
	OnError func(error)
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new file watcher. debounce <= 0 selects DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring the file at path. onChange is called with the
// absolute path once the file has been written or replaced and no further
// events arrived for the debounce interval. The file itself need not exist yet.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fsnotify.ErrClosed
	}
	if w.started {
		return ErrAlreadyWatching
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.started = true

	go w.loop(absPath, onChange)
	return nil
}

func (w *Watcher) loop(absPath string, onChange func(string)) {
	var (
		timer *time.Timer
		tmu   sync.Mutex
	)
	fire := func() {
		select {
		case <-w.done:
			return
		default:
		}
		onChange(absPath)
	}
	defer func() {
		tmu.Lock()
		if timer != nil {
			timer.Stop()
		}
		tmu.Unlock()
	}()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			// Remove and Rename-away leave nothing to load; the Create that
			// completes an atomic save triggers the reload instead.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// Trailing-edge debounce: restart the quiet period on every event.
			tmu.Lock()
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			tmu.Unlock()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if w.OnError != nil {
				w.OnError(err)
			}

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
