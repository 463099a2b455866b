package main

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Watcher constants
const (
	WatcherDebounce = 300 * time.Millisecond
)

// configWatcher reloads the config file when it changes on disk, so edits
// made outside the app (or by another instance) take effect without restart.
type configWatcher struct {
	stopChan      chan bool
	doneChan      chan struct{}
	debounceMutex sync.Mutex
	debounceTimer *time.Timer
}

// startConfigWatcher starts monitoring the config file for changes
func (a *App) startConfigWatcher() error {
	configPath, err := a.getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if a.configWatcher != nil {
		a.stopConfigWatcher()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which would
	// invalidate a watch on the file itself.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	cw := &configWatcher{
		stopChan: make(chan bool, 1),
		doneChan: make(chan struct{}),
	}
	a.configWatcher = cw

	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("Config watcher panic recovered: %v\n", r)
			}
			watcher.Close()
			close(cw.doneChan)
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				a.handleConfigFileEvent(cw, configPath, event)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Printf("Config watcher error: %v\n", err)

			case <-cw.stopChan:
				return
			}
		}
	}()

	fmt.Printf("Config file watcher started for: %s\n", configPath)
	return nil
}

// stopConfigWatcher stops the config file watcher and waits for it to exit
func (a *App) stopConfigWatcher() {
	cw := a.configWatcher
	if cw == nil {
		return
	}

	cw.debounceMutex.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
		cw.debounceTimer = nil
	}
	cw.debounceMutex.Unlock()

	select {
	case cw.stopChan <- true:
	default:
	}

	select {
	case <-cw.doneChan:
	case <-time.After(2 * time.Second):
		fmt.Println("Warning: Config watcher goroutine did not exit in time")
	}

	a.configWatcher = nil
	fmt.Println("Config file watcher stopped")
}

// handleConfigFileEvent debounces bursts of write events for the config file
// and triggers a reload once they settle.
func (a *App) handleConfigFileEvent(cw *configWatcher, configPath string, event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(configPath) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	cw.debounceMutex.Lock()
	defer cw.debounceMutex.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(WatcherDebounce, func() {
		a.reloadConfigFromDisk()
	})
}

// reloadConfigFromDisk re-reads the config file and notifies the frontend.
func (a *App) reloadConfigFromDisk() {
	// A save we performed ourselves also fires the watcher; reloading in
	// that case is a harmless no-op.
	if err := a.loadConfig(); err != nil {
		fmt.Printf("Config reload failed: %v\n", err)
		return
	}

	fmt.Println("Config reloaded from disk")
	if a.ctx != nil {
		wailsRuntime.EventsEmit(a.ctx, "config-reloaded", a.currentSFTPConfig())
	}
}
