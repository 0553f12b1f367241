package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jthrilly/dead-link-checker/internal/config"
	"github.com/jthrilly/dead-link-checker/internal/log"
	"github.com/jthrilly/dead-link-checker/internal/model"
	"github.com/jthrilly/dead-link-checker/internal/report"
)

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Seed != "https://example.com" {
			t.Errorf("Seed = %q, want %q", cfg.Seed, "https://example.com")
		}
		if cfg.Concurrency != config.DefaultConcurrency {
			t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, config.DefaultConcurrency)
		}
		if cfg.Delay != config.DefaultDelay {
			t.Errorf("Delay = %v, want %v", cfg.Delay, config.DefaultDelay)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, config.DefaultTimeout)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB should default to true")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		args := []string{
			"--concurrent", "5",
			"--delay", "250",
			"--timeout", "3s",
			"--no-save",
			"--json",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Concurrency != 5 {
			t.Errorf("Concurrency = %d, want 5", cfg.Concurrency)
		}
		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("Delay = %v, want 250ms", cfg.Delay)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB should be false with --no-save")
		}
		if !cfg.JSONReport {
			t.Error("JSONReport should be true with --json")
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/deadlink.yaml"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("no seed fails validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if err := cfg.Validate(); !errors.Is(err, config.ErrNoSeed) {
			t.Errorf("Validate() error = %v, want ErrNoSeed", err)
		}
	})
}

// TestSiteConfigFor tests per-host override lookup for the seed.
func TestSiteConfigFor(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Sites = &config.File{
		Defaults: config.SiteConfig{UserAgent: "default-agent"},
		Sites: map[string]config.SiteConfig{
			"docs.example.com": {Cookie: "session=abc"},
		},
	}

	t.Run("matches host of full URL", func(t *testing.T) {
		t.Parallel()

		sc := siteConfigFor(cfg, "https://docs.example.com/guide")
		if sc.Cookie != "session=abc" {
			t.Errorf("Cookie = %q, want site override", sc.Cookie)
		}
		if sc.UserAgent != "default-agent" {
			t.Errorf("UserAgent = %q, want inherited default", sc.UserAgent)
		}
	})

	t.Run("matches bare host seed", func(t *testing.T) {
		t.Parallel()

		sc := siteConfigFor(cfg, "docs.example.com")
		if sc.Cookie != "session=abc" {
			t.Errorf("Cookie = %q, want site override", sc.Cookie)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		sc := siteConfigFor(cfg, "https://other.example.com")
		if sc.Cookie != "" {
			t.Errorf("Cookie = %q, want empty", sc.Cookie)
		}
		if sc.UserAgent != "default-agent" {
			t.Errorf("UserAgent = %q, want default", sc.UserAgent)
		}
	})
}

// TestRunCheck runs the full check against a local test server.
func TestRunCheck(t *testing.T) {
	t.Parallel()

	newServer := func() *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><a href="/about">about</a><a href="/missing">gone</a></body></html>`)
		})
		mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body>ok</body></html>`)
		})
		return httptest.NewServer(mux)
	}

	t.Run("dead links return sentinel error", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		defer srv.Close()

		cfg := config.NewConfig()
		cfg.Seed = srv.URL
		cfg.SaveToDB = false
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.json")
		cfg.Sites = &config.File{}

		err := runCheck(context.Background(), cfg, log.NewLogger(io.Discard, false))
		if !errors.Is(err, ErrDeadLinksFound) {
			t.Fatalf("runCheck() error = %v, want ErrDeadLinksFound", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("reading report: %v", err)
		}

		var parsed report.JSONReport
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if parsed.Summary.Dead != 1 {
			t.Errorf("Summary.Dead = %d, want 1", parsed.Summary.Dead)
		}
		if parsed.Summary.Total != 3 {
			t.Errorf("Summary.Total = %d, want 3", parsed.Summary.Total)
		}
	})

	t.Run("clean site returns nil", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body>no links</body></html>`)
		}))
		defer srv.Close()

		cfg := config.NewConfig()
		cfg.Seed = srv.URL
		cfg.SaveToDB = false
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.txt")
		cfg.Sites = &config.File{}

		if err := runCheck(context.Background(), cfg, log.NewLogger(io.Discard, false)); err != nil {
			t.Fatalf("runCheck() error = %v, want nil", err)
		}
	})

	t.Run("saves run to history database", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		defer srv.Close()

		cfg := config.NewConfig()
		cfg.Seed = srv.URL
		cfg.SaveToDB = true
		cfg.DBDir = t.TempDir()
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.txt")
		cfg.Sites = &config.File{}

		err := runCheck(context.Background(), cfg, log.NewLogger(io.Discard, false))
		if !errors.Is(err, ErrDeadLinksFound) {
			t.Fatalf("runCheck() error = %v, want ErrDeadLinksFound", err)
		}

		if _, statErr := os.Stat(filepath.Join(cfg.DBDir, "deadlink.db")); statErr != nil {
			t.Errorf("expected history database to exist: %v", statErr)
		}
	})
}

// TestOutputReport tests report destination handling.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	testReport := &model.RunReport{
		Seed:      "https://site.test",
		Origin:    "https://site.test",
		StartedAt: time.Now(),
		Duration:  time.Second,
		Outcomes: []model.LinkOutcome{
			{Address: "https://site.test", Status: 200},
		},
	}

	t.Run("creates nested output directories", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "deep", "out.md")
		cfg.MarkdownReport = true

		if err := outputReport(cfg, io.Discard, testReport); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("reading report: %v", err)
		}
		if len(data) == 0 {
			t.Error("expected non-empty markdown report")
		}
	})

	t.Run("terminal shows summary when writing to a file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "out.json")
		cfg.JSONReport = true

		var terminal bytes.Buffer
		if err := outputReport(cfg, &terminal, testReport); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("reading report: %v", err)
		}
		var parsed report.JSONReport
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("report file is not valid JSON: %v", err)
		}

		if !strings.Contains(terminal.String(), "links checked") {
			t.Errorf("expected summary on terminal, got %q", terminal.String())
		}
	})

	t.Run("report file has restricted permissions", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "out.txt")

		if err := outputReport(cfg, io.Discard, testReport); err != nil {
			t.Fatalf("outputReport() error = %v", err)
		}

		info, err := os.Stat(cfg.ReportFile)
		if err != nil {
			t.Fatalf("stat report: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("report permissions = %o, want 0600", perm)
		}
	})
}
