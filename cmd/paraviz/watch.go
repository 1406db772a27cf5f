package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// watchFile calls fn after every write to path until ctx is done. It watches
// the parent directory, since editors often replace the file on save.
func watchFile(ctx context.Context, path string, logger log.Logger, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	level.Info(logger).Log("msg", "watching", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			level.Info(logger).Log("msg", "config changed", "op", ev.Op.String())
			if err := fn(); err != nil {
				level.Error(logger).Log("msg", "render failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			level.Warn(logger).Log("msg", "watch error", "err", err)
		}
	}
}
