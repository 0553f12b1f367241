package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFile tests YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads sites and defaults", func(t *testing.T) {
		t.Parallel()

		yml := `
defaults:
  userAgent: "checker/1.0"
sites:
  docs.example.com:
    cookie: "session=abc123"
    headers:
      Authorization: "Bearer token"
    ignorePatterns:
      - "/logout*"
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		if cf.Defaults.UserAgent != "checker/1.0" {
			t.Errorf("expected default user agent, got %q", cf.Defaults.UserAgent)
		}

		site, ok := cf.Sites["docs.example.com"]
		if !ok {
			t.Fatal("expected docs.example.com entry")
		}
		if site.Cookie != "session=abc123" {
			t.Errorf("unexpected cookie: %q", site.Cookie)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("unexpected headers: %v", site.Headers)
		}
		if len(site.IgnorePatterns) != 1 {
			t.Errorf("unexpected ignore patterns: %v", site.IgnorePatterns)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("empty file gets initialized sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected initialized Sites map")
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Chdir(dir)
		got := FindConfigFile("")
		// Resolve symlinks: on some systems TempDir returns a link.
		wantInfo, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat want: %v", err)
		}
		gotInfo, err := os.Stat(got)
		if err != nil {
			t.Fatalf("stat got %q: %v", got, err)
		}
		if !os.SameFile(wantInfo, gotInfo) {
			t.Errorf("expected %q, got %q", path, got)
		}
	})
}
