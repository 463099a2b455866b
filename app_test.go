package main

import (
	"testing"
)

func TestNewApp(t *testing.T) {
	app := NewApp()
	if app == nil {
		t.Fatal("NewApp() returned nil")
	}
	if app.config == nil {
		t.Fatal("NewApp() should start with a default config")
	}
	if app.sftp == nil {
		t.Fatal("NewApp() should wire the SFTP manager")
	}

	cfg := app.currentSFTPConfig()
	if cfg.BufferSize != DefaultSFTPBufferSize {
		t.Fatalf("Unexpected SFTP buffer size %d", cfg.BufferSize)
	}
}

func TestAppSFTPBindings(t *testing.T) {
	app := NewApp()

	if count := app.SFTPActiveTransferCount(); count != 0 {
		t.Fatalf("Expected 0 active transfers on a fresh app, got %d", count)
	}

	result := app.SFTPCancelTransfer("ghost")
	if result.Success {
		t.Fatal("Cancelling an unknown transfer must fail")
	}

	if entries := app.SFTPTransferHistory(); len(entries) != 0 {
		t.Fatalf("Expected empty history on a fresh app, got %d entries", len(entries))
	}
}
