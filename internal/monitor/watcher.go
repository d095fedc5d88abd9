package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const debounceInterval = 250 * time.Millisecond

// Watcher signals on Changes when export files under a path are written,
// created, removed or renamed. Bursts are coalesced.
type Watcher struct {
	watcher *fsnotify.Watcher
	file    string
	changes chan struct{}
	stop    chan struct{}
}

// NewWatcher watches path. A directory is watched recursively; a file is
// watched through its parent directory.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	if info.IsDir() {
		err = w.addTree(path)
	} else {
		w.file = filepath.Base(path)
		err = fw.Add(filepath.Dir(path))
	}
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.watcher.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.file != "" {
		return filepath.Base(event.Name) == w.file
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".json")
}

func (w *Watcher) loop() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if w.file == "" && event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
				}
			}

			if !w.relevant(event) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("file watcher error")

		case <-w.stop:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
