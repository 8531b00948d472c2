package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-reads the configuration file when it changes on disk and hands
// the freshly validated result to a callback. Reload failures keep the
// previous configuration; a broken edit never takes the service down.
//
// Events are debounced because editors and config mounts typically produce
// several writes per save.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		watcher:  fw,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, delivering each successfully reloaded configuration to
// onReload, until the context is cancelled or Stop is called. The parent
// directory is watched rather than the file itself so atomic replace-style
// saves are seen.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Config)) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	base := filepath.Base(w.path)

	w.logger.Info("config watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(onReload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// Stop terminates the watch loop and releases the fsnotify handle.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

func (w *Watcher) scheduleReload(onReload func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		cfg, err := Load(w.path)
		if err != nil {
			w.logger.Warn("config reload failed, keeping previous configuration", "error", err)
			return
		}
		w.logger.Info("configuration reloaded", "path", w.path)
		onReload(cfg)
	})
}
