package main

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.SFTP.BufferSize != DefaultSFTPBufferSize {
		t.Fatalf("Unexpected default buffer size %d", cfg.SFTP.BufferSize)
	}
	if !cfg.SFTP.UseConcurrentIO {
		t.Fatal("Concurrent IO should default to enabled")
	}
}

func TestSFTPConfigWithDefaults(t *testing.T) {
	var zero SFTPConfig
	filled := zero.withDefaults()

	if filled.ConnectTimeoutSeconds != DefaultConnectTimeoutSeconds {
		t.Fatalf("Unexpected connect timeout %d", filled.ConnectTimeoutSeconds)
	}
	if filled.IdleTimeoutSeconds != DefaultIdleTimeoutSeconds {
		t.Fatalf("Unexpected idle timeout %d", filled.IdleTimeoutSeconds)
	}
	if filled.ReapIntervalSeconds != DefaultReapIntervalSeconds {
		t.Fatalf("Unexpected reap interval %d", filled.ReapIntervalSeconds)
	}
	if filled.BufferSize != DefaultSFTPBufferSize {
		t.Fatalf("Unexpected buffer size %d", filled.BufferSize)
	}
	if filled.MaxPreviewBytes != DefaultMaxPreviewBytes {
		t.Fatalf("Unexpected preview limit %d", filled.MaxPreviewBytes)
	}

	// Explicit values survive.
	custom := SFTPConfig{BufferSize: 4096}.withDefaults()
	if custom.BufferSize != 4096 {
		t.Fatalf("Explicit buffer size was overwritten: %d", custom.BufferSize)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowWidth = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected validation error for a too-small window width")
	}

	cfg = DefaultConfig()
	cfg.SFTP.IdleTimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected validation error for a negative idle timeout")
	}

	cfg = DefaultConfig()
	cfg.SFTP.BufferSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected validation error for a negative buffer size")
	}
}
