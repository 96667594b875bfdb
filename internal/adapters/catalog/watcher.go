package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/crickdash/pkg/logger"
)

// Watch reloads the store whenever its file is written or replaced. It
// watches the parent directory so editors that swap files atomically are
// still seen. Watch returns once the watcher is installed; the loop stops
// with ctx.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return fmt.Errorf("catalog watcher: %w", err)
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				_ = s.Reload(ctx)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error(ctx, "catalog watcher error", logger.Error(err))
			}
		}
	}()
	return nil
}
