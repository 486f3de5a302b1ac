package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk and hands the
// fresh Config to a callback. Reload errors keep the previous config
// and are only logged; a broken edit should not take the process down.
type Watcher struct {
	path string
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchFile starts watching path. The watch is on the parent directory
// since editors typically replace the file rather than write in place.
func WatchFile(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{path: path, fsw: fsw, done: make(chan struct{})}
	go w.loop(onReload)
	return w, nil
}

func (w *Watcher) loop(onReload func(*Config)) {
	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				log.Warn("config reload failed", "path", w.path, "error", err)
				continue
			}
			log.Info("config reloaded", "path", w.path)
			onReload(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("config watch error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watch. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
