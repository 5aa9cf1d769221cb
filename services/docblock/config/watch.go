// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads settings whenever one of the loader's files changes.
//
// Description:
//
//	Watches the directories that hold the loader's files, so files created
//	after Watch starts are picked up too. Every relevant write, create,
//	rename or remove triggers a full Load. A successful reload is passed to
//	onChange; a failed one is logged and the previous settings stay in
//	effect. Directories that do not exist are not watched.
//
// Inputs:
//   - ctx: Stops the watch when cancelled.
//   - loader: Source of the file paths and the reload logic.
//   - onChange: Called from the watch goroutine with each new value.
//
// Outputs:
//   - error: Non-nil only if the watcher cannot be created. Returns nil
//     once ctx is done.
func Watch(ctx context.Context, loader *Loader, onChange func(*Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: creating watcher: %w", err)
	}
	defer watcher.Close()

	relevant := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range loader.Paths() {
		relevant[filepath.Clean(path)] = true
		dirs[filepath.Dir(path)] = true
	}

	for dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Warn("settings directory not watched",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			settings, err := loader.Load(ctx)
			if err != nil {
				slog.Warn("settings reload failed, keeping previous",
					slog.String("file", event.Name),
					slog.String("error", err.Error()))
				continue
			}

			slog.Info("settings reloaded",
				slog.String("file", event.Name),
				slog.String("formatter", settings.Formatter))
			onChange(settings)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("settings watcher error", slog.String("error", err.Error()))
		}
	}
}
