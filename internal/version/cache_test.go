package version

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsCacheValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		entry          *CacheEntry
		currentVersion string
		want           bool
	}{
		{"nil entry", nil, "v1.0.0", false},
		{
			"fresh entry for running version",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now, HasUpdate: true},
			"v1.0.0", true,
		},
		{
			"older than TTL",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now.Add(-7 * time.Hour), HasUpdate: true},
			"v1.0.0", false,
		},
		{
			"just under TTL",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now.Add(-cacheTTL + time.Minute)},
			"v1.0.0", true,
		},
		{
			"exactly at TTL",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now.Add(-cacheTTL)},
			"v1.0.0", false,
		},
		{
			"binary upgraded since check",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now, HasUpdate: true},
			"v1.1.0", false,
		},
		{
			"binary downgraded since check",
			&CacheEntry{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", CheckedAt: now, HasUpdate: true},
			"v0.9.0", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCacheValid(tt.entry, tt.currentVersion); got != tt.want {
				t.Errorf("IsCacheValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveAndLoadCache(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	entry := &CacheEntry{
		LatestVersion:  "v1.2.3",
		CurrentVersion: "v1.0.0",
		CheckedAt:      time.Now().Round(time.Second),
		HasUpdate:      true,
	}
	if err := SaveCache(entry); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	loaded, err := LoadCache()
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if loaded.LatestVersion != entry.LatestVersion ||
		loaded.CurrentVersion != entry.CurrentVersion ||
		loaded.HasUpdate != entry.HasUpdate ||
		!loaded.CheckedAt.Equal(entry.CheckedAt) {
		t.Errorf("round trip mismatch: saved=%+v loaded=%+v", entry, loaded)
	}
}

func TestSaveCacheCreatesMissingDirectory(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "nested", "home"))

	entry := &CacheEntry{CurrentVersion: "v0.9.0", LatestVersion: "v1.0.0", CheckedAt: time.Now(), HasUpdate: true}
	if err := SaveCache(entry); err != nil {
		t.Fatalf("SaveCache should create missing directories: %v", err)
	}
	if _, err := os.Stat(cachePath()); err != nil {
		t.Fatalf("cache file not created: %v", err)
	}
}

func TestLoadCacheErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := LoadCache(); err == nil {
		t.Error("missing cache file should error")
	}

	path := cachePath()
	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte(`{corrupted}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCache(); err == nil {
		t.Error("corrupt cache file should error")
	}
}
