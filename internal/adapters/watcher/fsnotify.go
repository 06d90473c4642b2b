// Package watcher provides the watch-folder adapter.
// Clean Architecture: Adapter implementing ports.FileSource. Files dropped
// into the watched directory feed the upload pipeline.
package watcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// FSNotifySource implements ports.FileSource using fsnotify.
type FSNotifySource struct {
	watcher    *fsnotify.Watcher
	extensions []string
	log        *zap.Logger
}

// NewFSNotifySource creates a watch-folder source for the given extensions.
func NewFSNotifySource(extensions []string, log *zap.Logger) (*FSNotifySource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FSNotifySource{
		watcher:    w,
		extensions: extensions,
		log:        log.Named("watcher"),
	}, nil
}

// Watch starts monitoring the directory and emits events.
func (w *FSNotifySource) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}

				var op ports.FileOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ports.FileCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ports.FileModified
				case event.Op&fsnotify.Remove == fsnotify.Remove:
					op = ports.FileDeleted
				default:
					continue
				}

				select {
				case events <- ports.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifySource) Stop() error {
	return w.watcher.Close()
}

// isWatchedExtension checks if the file has a watched extension.
func (w *FSNotifySource) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
