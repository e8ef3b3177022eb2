package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever one of the config files is
// written, created or removed, and passes the result to onChange. Invalid
// configurations are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, workingDir string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files instead of writing them in place, so the
	// directories are watched rather than the files.
	paths := Paths(workingDir)
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Debug("Not watching config directory", "dir", dir, "error", err)
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no config directory could be watched")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !slices.Contains(paths, event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			cfg, err := Load(workingDir, false)
			if err != nil {
				slog.Warn("Ignoring invalid configuration", "file", event.Name, "error", err)
				continue
			}
			slog.Debug("Configuration reloaded", "file", event.Name)
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "error", err)
		}
	}
}
