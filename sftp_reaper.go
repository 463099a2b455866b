package main

import (
	"fmt"
	"time"
)

// StartIdleReaper launches the background sweep that closes pooled sessions
// idle beyond the configured threshold. It runs until StopIdleReaper.
func (m *SFTPManager) StartIdleReaper() {
	m.reaperMutex.Lock()
	defer m.reaperMutex.Unlock()

	if m.reaperStop != nil {
		return // already running
	}

	cfg := m.config()
	interval := time.Duration(cfg.ReapIntervalSeconds) * time.Second

	m.reaperStop = make(chan bool, 1)
	m.reaperDone = make(chan struct{})

	stop := m.reaperStop
	done := m.reaperDone

	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("Idle reaper panic recovered: %v\n", r)
			}
			close(done)
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.SweepIdleSessions()
			case <-stop:
				return
			}
		}
	}()

	fmt.Printf("Idle session reaper started (interval %s)\n", interval)
}

// StopIdleReaper stops the sweep goroutine and waits for it to exit.
func (m *SFTPManager) StopIdleReaper() {
	m.reaperMutex.Lock()
	defer m.reaperMutex.Unlock()

	if m.reaperStop == nil {
		return
	}

	select {
	case m.reaperStop <- true:
	default:
	}

	select {
	case <-m.reaperDone:
	case <-time.After(2 * time.Second):
		fmt.Println("Warning: idle reaper goroutine did not exit in time")
	}

	m.reaperStop = nil
	m.reaperDone = nil
	fmt.Println("Idle session reaper stopped")
}

// SweepIdleSessions releases every pooled session whose last activity is
// older than the idle threshold. Close failures are logged and do not stop
// the sweep. The sweep does not consult in-flight transfers: a transfer
// paused long enough on a session loses it and fails at its next I/O.
func (m *SFTPManager) SweepIdleSessions() int {
	cfg := m.config()
	idleThreshold := time.Duration(cfg.IdleTimeoutSeconds) * time.Second

	stale := m.pool.staleKeys(idleThreshold)
	for _, key := range stale {
		fmt.Printf("Reaping idle SFTP session %s\n", key)
		if err := m.pool.Release(key); err != nil {
			fmt.Printf("Error reaping session %s: %v\n", key, err)
		}
	}
	return len(stale)
}
