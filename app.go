package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct
type App struct {
	ctx   context.Context
	mutex sync.Mutex

	config        *AppConfig
	configDirty   bool
	debounceTimer *time.Timer
	configWatcher *configWatcher

	sftp           *SFTPManager
	progressCancel func()
}

// NewApp creates a new App application struct
func NewApp() *App {
	a := &App{
		config: DefaultConfig(),
	}
	a.sftp = NewSFTPManager(a.currentSFTPConfig)
	return a
}

// currentSFTPConfig snapshots the SFTP section of the live config with
// defaults applied, so the transfer layer always sees usable values.
func (a *App) currentSFTPConfig() SFTPConfig {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.config.SFTP.withDefaults()
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.loadConfig(); err != nil {
		fmt.Println("Error loading config:", err)
	}

	if a.config != nil {
		wailsRuntime.WindowSetSize(a.ctx, a.config.WindowWidth, a.config.WindowHeight)
		if a.config.WindowMaximized {
			wailsRuntime.WindowMaximise(a.ctx)
		}
	}

	if err := a.startConfigWatcher(); err != nil {
		fmt.Printf("Warning: Failed to start config watcher: %v\n", err)
		// Continue without hot reload - it's not critical
	}

	a.sftp.StartIdleReaper()
	a.startProgressForwarding()

	wailsRuntime.EventsOn(a.ctx, "frontend:window:resized", a.handleFrontendResizeEvent)
}

// startProgressForwarding subscribes to transfer progress and relays every
// event to the frontend.
func (a *App) startProgressForwarding() {
	events, cancel := a.sftp.SubscribeProgress()
	a.progressCancel = cancel

	go func() {
		for ev := range events {
			if a.ctx != nil {
				wailsRuntime.EventsEmit(a.ctx, "sftp-transfer-progress", ev)
			}
		}
	}()
}

// shutdown is called during application shutdown
func (a *App) shutdown(ctx context.Context) {
	fmt.Println("Shutdown initiated...")

	a.mutex.Lock()
	if a.debounceTimer != nil {
		a.debounceTimer.Stop()
	}
	a.mutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic during shutdown: %v\n", r)
		}
	}()

	// Capture the final window state before the window goes away
	if a.ctx != nil && a.config != nil {
		if a.updateWindowState() {
			a.mutex.Lock()
			a.configDirty = true
			a.mutex.Unlock()
		}
	}

	a.stopConfigWatcher()

	if a.progressCancel != nil {
		a.progressCancel()
	}

	a.sftp.Shutdown()
	a.saveConfigIfDirty()

	fmt.Println("Shutdown completed.")
}

// updateWindowState updates the config with current window state and reports
// whether anything changed.
func (a *App) updateWindowState() bool {
	if a.ctx == nil || a.config == nil {
		return false
	}

	var width, height int
	var isMaximized bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("Recovered from panic reading window state: %v\n", r)
				width = a.config.WindowWidth
				height = a.config.WindowHeight
				isMaximized = a.config.WindowMaximized
			}
		}()
		width, height = wailsRuntime.WindowGetSize(a.ctx)
		isMaximized = wailsRuntime.WindowIsMaximised(a.ctx)
	}()

	changed := false
	if width > 0 && height > 0 && (a.config.WindowWidth != width || a.config.WindowHeight != height) {
		a.config.WindowWidth = width
		a.config.WindowHeight = height
		changed = true
	}
	if a.config.WindowMaximized != isMaximized {
		a.config.WindowMaximized = isMaximized
		changed = true
	}
	return changed
}

// handleFrontendResizeEvent is called when the frontend signals that window resizing has finished.
func (a *App) handleFrontendResizeEvent(optionalData ...interface{}) {
	if a.ctx == nil || a.config == nil {
		return
	}

	if a.updateWindowState() {
		a.markConfigDirty()
	}
}
