package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/portfolio/internal/schemas"
)

// seedDebounce absorbs the burst of events editors emit for a single save.
const seedDebounce = 200 * time.Millisecond

// ReadSeed reads and schema-validates a résumé JSON file.
func ReadSeed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	if err := schemas.ValidateResume(data); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return data, nil
}

// LoadSeed saves the seed file into s. When onlyIfEmpty is set an existing
// résumé is left alone.
func LoadSeed(ctx context.Context, s ResumeStore, path string, onlyIfEmpty bool) (bool, error) {
	if onlyIfEmpty {
		existing, err := s.GetResume(ctx)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil
		}
	}
	data, err := ReadSeed(path)
	if err != nil {
		return false, err
	}
	if _, err := s.SaveResume(ctx, data, nil); err != nil {
		return false, err
	}
	return true, nil
}

// WatchSeed reloads the seed file into s whenever it changes, until ctx is
// cancelled. The parent directory is watched so editors that replace the file
// by rename are still seen. Invalid edits are logged and skipped.
func WatchSeed(ctx context.Context, s ResumeStore, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve seed path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log.Printf("[seed] watching %s", abs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(seedDebounce)
			} else {
				timer.Reset(seedDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if _, err := LoadSeed(ctx, s, abs, false); err != nil {
				log.Printf("[seed] reload skipped: %v", err)
				continue
			}
			log.Printf("[seed] reloaded %s", abs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[seed] watcher error: %v", err)
		}
	}
}
