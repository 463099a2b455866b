package main

import (
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	app := NewApp()
	info := app.GetVersionInfo()
	if info == nil {
		t.Fatal("GetVersionInfo() returned nil")
	}
	if info.Version == "" {
		t.Fatal("Version should not be empty")
	}
	if info.Platform == "" || info.Arch == "" {
		t.Fatal("Platform information should be populated")
	}
}

func TestIsNewerVersion(t *testing.T) {
	cases := []struct {
		current string
		latest  string
		want    bool
	}{
		{"dev", "v1.0.0", true},
		{"dev", "dev", false},
		{"v1.0.0", "v1.0.1", true},
		{"v1.2.0", "v1.2.0", false},
		{"v2.0.0", "v1.9.9", false},
		{"1.0.0", "v1.1.0", true},
		{"garbage", "v1.0.0", true},
		{"v1.0.0", "garbage", false},
	}
	for _, c := range cases {
		if got := isNewerVersion(c.current, c.latest); got != c.want {
			t.Fatalf("isNewerVersion(%q, %q) = %v, want %v", c.current, c.latest, got, c.want)
		}
	}
}
