package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/assetgraph/manifest"
	"github.com/LegacyCodeHQ/bundlegraph/assetgraph/scan"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

var skippedDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"dist":          true,
	".cache":        true,
	".parcel-cache": true,
	".idea":         true,
	".vscode":       true,
}

func watchAndRebuild(ctx context.Context, root string, debounce time.Duration, rebuild func(), logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("input changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// isRelevantChange reports whether event touches a file that can be part of
// the asset graph: a scanned source type, a manifest, or any other asset type
// a manifest may reference.
func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if _, err := manifest.FormatFromPath(event.Name); err == nil {
		return true
	}
	return scan.SupportsFileType(assetgraph.FileTypeFromPath(event.Name))
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
