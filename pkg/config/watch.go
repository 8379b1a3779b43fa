package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/marmos91/dirsnap/internal/logger"
)

// reloadDelay coalesces the burst of events editors emit for one save.
var reloadDelay = 200 * time.Millisecond

// Watch reloads the configuration file at path whenever it changes and
// passes each successfully loaded configuration to onChange. Invalid
// files are logged and skipped. Watch blocks until ctx is canceled.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by rename are still observed.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDelay)

		case <-timer.C:
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("Ignoring invalid configuration change",
					logger.ConfigFile(path), logger.Err(err))
				continue
			}
			logger.Info("Configuration reloaded", logger.ConfigFile(path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", logger.Err(err))
		}
	}
}
