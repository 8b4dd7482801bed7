package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultTimeout != 30 || cfg.MaxRedirects != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.DefaultTimeout = 60
	cfg.AddProfile(Profile{
		Name:            "api",
		BaseURL:         "https://api.example.com",
		Headers:         map[string]string{"Authorization": "Bearer xyz"},
		Timeout:         15,
		FollowRedirects: true,
	})
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.DefaultTimeout != 60 {
		t.Errorf("DefaultTimeout = %d, want 60", loaded.DefaultTimeout)
	}
	profile, ok := loaded.GetProfile("api")
	if !ok {
		t.Fatal("profile lost in round trip")
	}
	if profile.BaseURL != "https://api.example.com" || profile.Timeout != 15 || !profile.FollowRedirects {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if profile.Headers["Authorization"] != "Bearer xyz" {
		t.Errorf("headers lost: %+v", profile.Headers)
	}
}

func TestRemoveProfile(t *testing.T) {
	cfg := Default()
	cfg.AddProfile(Profile{Name: "tmp"})
	if !cfg.RemoveProfile("tmp") {
		t.Error("RemoveProfile returned false for existing profile")
	}
	if cfg.RemoveProfile("tmp") {
		t.Error("RemoveProfile returned true for missing profile")
	}
}

func TestCacheConflictDetection(t *testing.T) {
	cache := &CachedFlags{}
	cache.Set("bench", "requests", "100")
	cache.Set("bench", "concurrency", "10")

	conflicts := cache.DetectConflicts("bench", map[string]string{
		"requests":    "200",  // differs
		"concurrency": "10",   // same
		"quiet":       "true", // not cached
	})
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %+v", len(conflicts), conflicts)
	}
	if conflicts[0].Flag != "requests" || conflicts[0].Cached != "100" || conflicts[0].Given != "200" {
		t.Errorf("unexpected conflict: %+v", conflicts[0])
	}

	// Another command's cache never conflicts
	if got := cache.DetectConflicts("get", map[string]string{"requests": "200"}); len(got) != 0 {
		t.Errorf("cross-command conflicts: %+v", got)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	cache := &CachedFlags{}
	cache.Set("download", "parallel", "8")
	if err := cache.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if value, ok := loaded.Get("download", "parallel"); !ok || value != "8" {
		t.Errorf("Get = %q, %v; want \"8\", true", value, ok)
	}
}

func TestLoadCacheMissingFile(t *testing.T) {
	cache, err := LoadCache(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get("get", "verbose"); ok {
		t.Error("empty cache should have no entries")
	}
}
