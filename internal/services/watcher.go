package services

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// DocumentWatcher watches a loaded document on disk and reports changes so
// the document can be reloaded automatically.
type DocumentWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(path string)
	onError  func(err error)
	stop     chan struct{}
	done     chan struct{}
}

// NewDocumentWatcher starts watching the file at path. onChange is invoked
// after writes to the file settle; onError receives watcher failures. Both
// callbacks run on the watcher goroutine.
func NewDocumentWatcher(path string, onChange func(path string), onError func(err error)) (*DocumentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file itself. Editors that save
	// via rename would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	dw := &DocumentWatcher{
		watcher:  watcher,
		path:     path,
		onChange: onChange,
		onError:  onError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go dw.run()
	return dw, nil
}

// Path returns the watched file path.
func (dw *DocumentWatcher) Path() string {
	return dw.path
}

// Stop ends the watch and waits for the watcher goroutine to exit.
func (dw *DocumentWatcher) Stop() {
	close(dw.stop)
	<-dw.done
}

func (dw *DocumentWatcher) run() {
	defer close(dw.done)
	defer dw.watcher.Close()

	var debounce *time.Timer
	var fire <-chan time.Time
	base := filepath.Base(dw.path)

	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			dw.onChange(dw.path)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.onError != nil {
				dw.onError(err)
			}

		case <-dw.stop:
			return
		}
	}
}
