package config

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
)

const reloadDebounceSecs = 2

// Watcher reloads the configuration when its file changes on disk. Editors
// tend to fire several write events per save, so reloads are debounced.
type Watcher struct {
	manager       *Manager
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	stopChan      chan struct{}
}

// NewWatcher creates a watcher for the manager's config file.
func NewWatcher(manager *Manager) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		manager:  manager,
		watcher:  fsWatcher,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching the config file for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.manager.Path()); err != nil {
		return err
	}
	go w.watchLoop()
	slog.Info("Config watcher started", "path", w.manager.Path())
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(reloadDebounceSecs*time.Second, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := readConfig(w.manager.Path())
	if err != nil {
		slog.Error("Config reload failed, keeping previous configuration", "error", err)
		return
	}
	applyEnvOverrides(cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		slog.Error("Config reload rejected by validation, keeping previous configuration", "error", err)
		return
	}

	w.manager.Update(cfg)
	slog.Info("Configuration reloaded from disk", "path", w.manager.Path())
}
