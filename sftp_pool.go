package main

import (
	"fmt"
	"sync"
	"time"
)

// ConnectionHandle tracks one pooled remote session. The ready channel plays
// the role of a shared connect promise: it is closed exactly once, after
// which either session or connectErr is set for every waiter to read.
type ConnectionHandle struct {
	key          EndpointKey
	session      remoteSession
	connected    bool
	connecting   bool
	ready        chan struct{}
	connectErr   error
	lastActivity time.Time
}

// ConnectionPool owns the registry of remote sessions keyed by endpoint
// identity and deduplicates concurrent connection attempts: N concurrent
// Acquire calls for the same key perform exactly one underlying dial.
type ConnectionPool struct {
	mu      sync.Mutex
	handles map[EndpointKey]*ConnectionHandle
	dial    dialFunc
	config  func() SFTPConfig
	now     func() time.Time
}

// NewConnectionPool creates an empty pool using the given dialer and config
// source. now is replaceable for tests.
func NewConnectionPool(dial dialFunc, config func() SFTPConfig) *ConnectionPool {
	return &ConnectionPool{
		handles: make(map[EndpointKey]*ConnectionHandle),
		dial:    dial,
		config:  config,
		now:     time.Now,
	}
}

// endpointKey derives the pool identity for a set of connection parameters.
// Auth material is deliberately not part of the key.
func endpointKey(params ConnParams) EndpointKey {
	port := params.Port
	if port == 0 {
		port = DefaultSFTPPort
	}
	return EndpointKey(fmt.Sprintf("%s:%d:%s", params.Host, port, params.Username))
}

// Acquire returns a live session for the endpoint, reusing a pooled one when
// available. Concurrent callers for the same key are serialized onto one
// connect attempt; all of them see the same outcome.
func (p *ConnectionPool) Acquire(params ConnParams) (remoteSession, error) {
	key := endpointKey(params)

	p.mu.Lock()
	if h, ok := p.handles[key]; ok {
		if h.connected {
			h.lastActivity = p.now()
			session := h.session
			p.mu.Unlock()
			return session, nil
		}
		// Another caller is connecting: wait on its shared promise.
		ready := h.ready
		p.mu.Unlock()
		<-ready
		if h.connectErr != nil {
			return nil, h.connectErr
		}
		p.mu.Lock()
		h.lastActivity = p.now()
		session := h.session
		p.mu.Unlock()
		return session, nil
	}

	if len(p.handles) >= MaxPooledSessions {
		p.mu.Unlock()
		return nil, fmt.Errorf("maximum number of pooled sessions (%d) reached", MaxPooledSessions)
	}

	h := &ConnectionHandle{
		key:        key,
		connecting: true,
		ready:      make(chan struct{}),
	}
	p.handles[key] = h
	p.mu.Unlock()

	session, err := p.dial(params, p.config())

	p.mu.Lock()
	if err != nil {
		// A failed handle never survives in the pool: the next Acquire for
		// this key starts a fresh attempt.
		delete(p.handles, key)
		h.connecting = false
		h.connectErr = fmt.Errorf("connection to %s failed: %w", key, err)
		close(h.ready)
		p.mu.Unlock()
		return nil, h.connectErr
	}

	h.session = session
	h.connected = true
	h.connecting = false
	h.lastActivity = p.now()
	close(h.ready)
	p.mu.Unlock()

	return session, nil
}

// Release closes the session for a key and removes it from the pool.
func (p *ConnectionPool) Release(key EndpointKey) error {
	p.mu.Lock()
	h, ok := p.handles[key]
	if ok {
		delete(p.handles, key)
	}
	p.mu.Unlock()

	if !ok || h.session == nil {
		return nil
	}

	if err := h.session.Close(); err != nil {
		return fmt.Errorf("failed to close session %s: %w", key, err)
	}
	fmt.Printf("SFTP session closed for %s\n", key)
	return nil
}

// ReleaseAll closes every pooled session, used at shutdown.
func (p *ConnectionPool) ReleaseAll() {
	p.mu.Lock()
	keys := make([]EndpointKey, 0, len(p.handles))
	for key := range p.handles {
		keys = append(keys, key)
	}
	p.mu.Unlock()

	for _, key := range keys {
		if err := p.Release(key); err != nil {
			fmt.Printf("Error releasing session %s: %v\n", key, err)
		}
	}
}

// Size returns the number of handles currently registered.
func (p *ConnectionPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// staleKeys returns the keys of connected handles idle longer than the
// threshold. Handles still connecting are never considered stale.
func (p *ConnectionPool) staleKeys(idleThreshold time.Duration) []EndpointKey {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var stale []EndpointKey
	for key, h := range p.handles {
		if h.connected && now.Sub(h.lastActivity) > idleThreshold {
			stale = append(stale, key)
		}
	}
	return stale
}
