package library

import (
	"os"
	"path/filepath"
	"time"

	"KestrelFM/logger"

	"github.com/fsnotify/fsnotify"
)

const rescanDebounce = 2 * time.Second

// Watcher watches the media tree and invokes onChange after edits settle,
// so the library snapshot can be rebuilt and swapped in.
type Watcher struct {
	watcher   *fsnotify.Watcher
	root      string
	albumsDir string
	onChange  func()
	done      chan struct{}
}

// NewWatcher starts watching the media tree rooted at root.
func NewWatcher(root string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:   fw,
		root:      root,
		albumsDir: filepath.Join(root, "albums"),
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	w.addTargets()
	go w.loop()
	return w, nil
}

// addTargets registers the root, singles and albums directories plus every
// album subdirectory. Missing directories are skipped; they get picked up on
// the next change once they exist.
func (w *Watcher) addTargets() {
	targets := []string{w.root, filepath.Join(w.root, "singles"), w.albumsDir}
	if entries, err := os.ReadDir(w.albumsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				targets = append(targets, filepath.Join(w.albumsDir, entry.Name()))
			}
		}
	}
	for _, dir := range targets {
		if err := w.watcher.Add(dir); err != nil {
			logger.Debug("not watching directory",
				logger.String("dir", dir), logger.ErrorField(err))
		}
	}
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			return
		case <-fire:
			// New album directories need to be watched before rescanning.
			w.addTargets()
			logger.Info("media tree changed, rescanning library")
			w.onChange()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.AfterFunc(rescanDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(rescanDebounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("library watcher error", logger.ErrorField(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
