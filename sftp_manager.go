package main

import (
	"strings"
	"sync"
)

// SFTPManager is the service object owning the connection pool, the transfer
// tracker and the progress broker. It is constructed once at startup and
// passed by reference; nothing here is a package-level global, so tests can
// run several independent instances.
type SFTPManager struct {
	pool    *ConnectionPool
	tracker *TransferTracker
	broker  *progressBroker
	history *operationHistory
	config  func() SFTPConfig

	reaperMutex sync.Mutex
	reaperStop  chan bool
	reaperDone  chan struct{}
}

// NewSFTPManager wires a manager around the production SFTP dialer.
func NewSFTPManager(config func() SFTPConfig) *SFTPManager {
	return newSFTPManagerWithDialer(config, dialSFTP)
}

func newSFTPManagerWithDialer(config func() SFTPConfig, dial dialFunc) *SFTPManager {
	return &SFTPManager{
		pool:    NewConnectionPool(dial, config),
		tracker: NewTransferTracker(),
		broker:  newProgressBroker(),
		history: newOperationHistory(MaxHistoryEntries),
		config:  config,
	}
}

// SubscribeProgress registers a progress consumer; see progressBroker.
func (m *SFTPManager) SubscribeProgress() (<-chan ProgressEvent, func()) {
	return m.broker.Subscribe()
}

// History returns the recorded remote operations, newest last.
func (m *SFTPManager) History() []HistoryEntry {
	return m.history.Entries()
}

// ClearHistory drops all recorded operations.
func (m *SFTPManager) ClearHistory() {
	m.history.Clear()
}

// Shutdown stops the reaper, closes all pooled sessions and the broker.
func (m *SFTPManager) Shutdown() {
	m.StopIdleReaper()
	m.pool.ReleaseAll()
	m.broker.Close()
}

// joinRemotePath properly joins remote paths using forward slashes
func joinRemotePath(base, name string) string {
	if base == "" {
		return name
	}
	if name == "" {
		return base
	}
	// Always use forward slashes for remote paths (Unix-style)
	return strings.TrimSuffix(base, "/") + "/" + name
}

// normalizeRemotePath maps the UI's home shorthand onto real session paths:
// "~" and "" resolve to the session's working directory, and a leading "~/"
// is stripped so the remainder is relative to it. A fresh SFTP session
// starts in the authenticated user's home directory, which makes the
// relative form equivalent.
func normalizeRemotePath(session remoteSession, path string) (string, error) {
	switch {
	case path == "" || path == "~":
		wd, err := session.Getwd()
		if err != nil {
			return "", err
		}
		return wd, nil
	case strings.HasPrefix(path, "~/"):
		return strings.TrimPrefix(path, "~/"), nil
	default:
		return path, nil
	}
}
