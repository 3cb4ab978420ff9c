package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// LoadFile reads settings from json file, missing fields are filled with defaults
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint gosec // path is controlled by the app
	if err != nil {
		return New(), fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return New(), fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return res, nil
}

// SaveFile writes settings to json file
func SaveFile(path string, s Settings) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return nil
}

// Watch watches the settings file and calls onChange with reloaded settings on each write.
// Broken files are logged and skipped. The directory is watched, so editors replacing the file are supported.
// Blocks until ctx is canceled.
func Watch(ctx context.Context, path string, onChange func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping watcher for %s, %v", path, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s, e := LoadFile(path)
			if e != nil {
				log.Printf("[WARN] failed to load updated settings %s: %v", path, e)
				continue
			}
			log.Printf("[INFO] settings file %s reloaded", path)
			onChange(s)
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}
