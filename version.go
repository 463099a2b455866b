package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Version information - will be injected at build time
var (
	Version   = "dev"     // Will be set via ldflags
	GitCommit = "unknown" // Will be set via ldflags
	BuildDate = "unknown" // Will be set via ldflags
)

// VersionInfo represents version information
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// UpdateInfo represents update information from GitHub
type UpdateInfo struct {
	Available      bool   `json:"available"`
	LatestVersion  string `json:"latestVersion"`
	CurrentVersion string `json:"currentVersion"`
	ReleaseNotes   string `json:"releaseNotes"`
}

// gitHubRelease represents the GitHub release API response
type gitHubRelease struct {
	TagName    string `json:"tag_name"`
	Body       string `json:"body"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// GetVersionInfo returns current application version information
func (a *App) GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// CheckForUpdates checks GitHub releases for newer versions
func (a *App) CheckForUpdates() (*UpdateInfo, error) {
	const repoURL = "https://api.github.com/repos/shuttle-term/shuttle/releases/latest"

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(repoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release gitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release info: %w", err)
	}

	// Skip draft and prerelease versions
	if release.Draft || release.Prerelease {
		return &UpdateInfo{
			Available:      false,
			CurrentVersion: Version,
			LatestVersion:  Version,
		}, nil
	}

	return &UpdateInfo{
		Available:      isNewerVersion(Version, release.TagName),
		CurrentVersion: Version,
		LatestVersion:  release.TagName,
		ReleaseNotes:   release.Body,
	}, nil
}

// isNewerVersion compares two version strings using semantic versioning
func isNewerVersion(current, latest string) bool {
	// Handle dev version - always consider updates available
	if strings.HasPrefix(current, "dev") {
		return !strings.HasPrefix(latest, "dev")
	}

	currentVer, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		// If current version is not valid semver, consider update available
		return true
	}

	latestVer, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		// If latest version is not valid semver, no update available
		return false
	}

	return latestVer.GreaterThan(currentVer)
}
