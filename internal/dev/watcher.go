package dev

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// FileWatcher watches files for changes based on patterns
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	onChange func(path string, op fsnotify.Op)
}

// NewFileWatcher creates a new file watcher. Exclude patterns match base
// names; a trailing slash is ignored, so "build/" excludes a build directory.
func NewFileWatcher(patterns []string, exclude []string, onChange func(path string, op fsnotify.Op)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	trimmed := make([]string, len(exclude))
	for i, pattern := range exclude {
		trimmed[i] = strings.TrimSuffix(pattern, "/")
	}

	return &FileWatcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  trimmed,
		onChange: onChange,
	}, nil
}

// AddDirectory recursively adds a directory to the watcher
func (fw *FileWatcher) AddDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != dir && fw.excluded(filepath.Base(path)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Only watch directories
		if info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		}

		return nil
	})
}

// Start begins watching for file changes and blocks until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if fw.shouldWatch(event.Name) {
				fw.onChange(event.Name, event.Op)
			}

			// If a new directory is created, add it to the watcher
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !fw.excluded(filepath.Base(event.Name)) {
					if err := fw.AddDirectory(event.Name); err != nil {
						log.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
					}
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				log.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

func (fw *FileWatcher) excluded(base string) bool {
	for _, pattern := range fw.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// shouldWatch checks if a file should trigger a change event based on patterns
func (fw *FileWatcher) shouldWatch(path string) bool {
	base := filepath.Base(path)

	// Check excludes first. Excluded directories are never added, so their
	// contents produce no events.
	if fw.excluded(base) {
		return false
	}

	// Check if file matches any watch pattern
	for _, pattern := range fw.patterns {
		// Handle ** for recursive matching
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, _ := filepath.Match(rest, base); matched {
				return true
			}
		} else if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
