package version

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// UpdateAvailableMsg tells the console a newer release exists. The footer
// shows LatestVersion; UpdateCommand is what `version --check` prints.
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
	UpdateCommand  string
}

// CachedCheck is Check behind the on-disk cache: a still-valid cached
// result answers without touching the network, and a fresh successful
// check replaces the cache. Failed checks are never cached, so a flaky
// network retries on the next launch.
func CachedCheck(currentVersion string) CheckResult {
	if entry, err := LoadCache(); err == nil && IsCacheValid(entry, currentVersion) {
		return CheckResult{
			CurrentVersion: currentVersion,
			LatestVersion:  entry.LatestVersion,
			HasUpdate:      entry.HasUpdate,
		}
	}

	result := Check(currentVersion)
	if result.Error == nil {
		_ = SaveCache(&CacheEntry{
			LatestVersion:  result.LatestVersion,
			CurrentVersion: currentVersion,
			CheckedAt:      time.Now(),
			HasUpdate:      result.HasUpdate,
		})
	}
	return result
}

// CheckAsync wraps CachedCheck as a Bubble Tea command for the console's
// startup batch. Up-to-date binaries, dev builds and check failures all
// yield nil so the footer stays quiet.
func CheckAsync(currentVersion string) tea.Cmd {
	return func() tea.Msg {
		result := CachedCheck(currentVersion)
		if !result.HasUpdate {
			return nil
		}
		return UpdateAvailableMsg{
			CurrentVersion: currentVersion,
			LatestVersion:  result.LatestVersion,
			UpdateCommand:  UpdateCommand(result.LatestVersion),
		}
	}
}
