package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// CredentialWatcher notifies when key files under the fallback
// directory change, so the UI can re-run the credential diagnostic
// without a restart. Environment variables cannot change within a
// process run, so only the filesystem source is watched.
type CredentialWatcher struct {
	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}
}

// NewCredentialWatcher watches dir for .json changes. A missing
// directory is not an error; the watcher stays idle until Close.
func NewCredentialWatcher(dir string) (*CredentialWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	cw := &CredentialWatcher{
		watcher: w,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	if _, err := os.Stat(dir); err == nil {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("watching %s for key file changes", dir)
	}

	go cw.run()
	return cw, nil
}

// Events delivers a signal (coalesced) whenever a key file changes.
func (c *CredentialWatcher) Events() <-chan struct{} {
	return c.events
}

// Close stops the watcher.
func (c *CredentialWatcher) Close() error {
	close(c.done)
	return c.watcher.Close()
}

func (c *CredentialWatcher) run() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".json") {
				continue
			}
			logger.Debug("key file %s: %s", event.Name, event.Op)
			// Coalesce: drop the signal if one is already pending.
			select {
			case c.events <- struct{}{}:
			default:
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("credential watcher: %v", err)
		}
	}
}
