package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/cuepad/internal/pkg/logger"
)

// DetectChanges reports writes to the file under path. Parent directory is
// watched so files replaced by editors keep being detected.
func DetectChanges(ctx context.Context, path string) <-chan bool {
	var change = make(chan bool, 1)

	go func() {
		defer close(change)
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			log.Info(fmt.Sprintf("failed to create watcher: %v", err), logger.Error)
			return
		}

		go func() {
			<-ctx.Done()
			err := watcher.Close()
			if err != nil {
				log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
			}
		}()

		target := filepath.Clean(path)
		err = watcher.Add(filepath.Dir(target))
		if err != nil {
			log.Info(fmt.Sprintf("failed to watch %s: %v", target, err), logger.Error)
			return
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				log.Info(fmt.Sprintf("config change detected: %s", event.Name), logger.Info)
				select {
				case change <- true:
				default: // reload already pending
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Info(fmt.Sprintf("watcher error: %v", err), logger.Warning)
			}
		}
	}()

	return change
}
