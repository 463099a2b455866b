package main

import (
	"fmt"
)

const (
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 768

	MinWindowWidth  = 800
	MinWindowHeight = 600
	MaxWindowWidth  = 10000
	MaxWindowHeight = 10000
)

// SFTP transfer defaults
const (
	DefaultConnectTimeoutSeconds = 30
	DefaultIdleTimeoutSeconds    = 300
	DefaultReapIntervalSeconds   = 60
	DefaultSFTPBufferSize        = 256 * 1024
	DefaultSFTPMaxPacketSize     = 256 * 1024
	DefaultSFTPConcurrentReqs    = 64
	DefaultMaxPreviewBytes       = 1024 * 1024
)

// SFTPConfig holds tunables for the remote file-transfer layer.
type SFTPConfig struct {
	ConnectTimeoutSeconds int  `yaml:"connect_timeout_seconds"`
	IdleTimeoutSeconds    int  `yaml:"idle_timeout_seconds"`
	ReapIntervalSeconds   int  `yaml:"reap_interval_seconds"`
	BufferSize            int  `yaml:"buffer_size"`
	MaxPacketSize         int  `yaml:"max_packet_size"`
	ConcurrentRequests    int  `yaml:"concurrent_requests"`
	UseConcurrentIO       bool `yaml:"use_concurrent_io"`
	MaxPreviewBytes       int  `yaml:"max_preview_bytes"`
}

// AppConfig holds the application configuration
type AppConfig struct {
	WindowWidth     int        `yaml:"window_width"`
	WindowHeight    int        `yaml:"window_height"`
	WindowMaximized bool       `yaml:"window_maximized"`
	SFTP            SFTPConfig `yaml:"sftp"`
}

// DefaultConfig returns a new AppConfig with default values
func DefaultConfig() *AppConfig {
	return &AppConfig{
		WindowWidth:     DefaultWindowWidth,
		WindowHeight:    DefaultWindowHeight,
		WindowMaximized: false,
		SFTP: SFTPConfig{
			ConnectTimeoutSeconds: DefaultConnectTimeoutSeconds,
			IdleTimeoutSeconds:    DefaultIdleTimeoutSeconds,
			ReapIntervalSeconds:   DefaultReapIntervalSeconds,
			BufferSize:            DefaultSFTPBufferSize,
			MaxPacketSize:         DefaultSFTPMaxPacketSize,
			ConcurrentRequests:    DefaultSFTPConcurrentReqs,
			UseConcurrentIO:       true,
			MaxPreviewBytes:       DefaultMaxPreviewBytes,
		},
	}
}

// withDefaults replaces zero values with defaults so a partial config file
// (or an older one missing the sftp section) still yields a usable setup.
func (c SFTPConfig) withDefaults() SFTPConfig {
	if c.ConnectTimeoutSeconds == 0 {
		c.ConnectTimeoutSeconds = DefaultConnectTimeoutSeconds
	}
	if c.IdleTimeoutSeconds == 0 {
		c.IdleTimeoutSeconds = DefaultIdleTimeoutSeconds
	}
	if c.ReapIntervalSeconds == 0 {
		c.ReapIntervalSeconds = DefaultReapIntervalSeconds
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultSFTPBufferSize
	}
	if c.MaxPacketSize == 0 {
		c.MaxPacketSize = DefaultSFTPMaxPacketSize
	}
	if c.ConcurrentRequests == 0 {
		c.ConcurrentRequests = DefaultSFTPConcurrentReqs
	}
	if c.MaxPreviewBytes == 0 {
		c.MaxPreviewBytes = DefaultMaxPreviewBytes
	}
	return c
}

// Validate checks the configuration for basic validity.
func (c *AppConfig) Validate() error {
	if c.WindowWidth < MinWindowWidth || c.WindowWidth > MaxWindowWidth {
		return fmt.Errorf("window width %d is out of range (%d-%d)", c.WindowWidth, MinWindowWidth, MaxWindowWidth)
	}
	if c.WindowHeight < MinWindowHeight || c.WindowHeight > MaxWindowHeight {
		return fmt.Errorf("window height %d is out of range (%d-%d)", c.WindowHeight, MinWindowHeight, MaxWindowHeight)
	}
	if c.SFTP.ConnectTimeoutSeconds < 0 {
		return fmt.Errorf("connect timeout must not be negative")
	}
	if c.SFTP.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idle timeout must not be negative")
	}
	if c.SFTP.ReapIntervalSeconds < 0 {
		return fmt.Errorf("reap interval must not be negative")
	}
	if c.SFTP.BufferSize < 0 || c.SFTP.MaxPacketSize < 0 {
		return fmt.Errorf("buffer sizes must not be negative")
	}
	return nil
}
