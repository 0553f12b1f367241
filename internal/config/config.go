package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultConcurrency is the number of crawl workers. Twenty parallel
	// requests finish typical sites quickly without looking like a flood
	// to the target server.
	DefaultConcurrency = 20

	// DefaultDelay is the pacing delay each worker applies between its
	// own requests. It is deliberately small: the delay is per worker,
	// so the effective global request rate is roughly concurrency/delay.
	DefaultDelay = 10 * time.Millisecond

	// DefaultTimeout is the per-request timeout. Ten seconds is generous
	// for a healthy server; anything slower is close enough to dead for
	// a link checker's purposes.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read for
	// link extraction. 5MB covers any sane HTML page while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies the checker in HTTP requests so site
	// operators can recognize the traffic in their logs.
	DefaultUserAgent = "deadlink/1.0 (+https://github.com/jthrilly/dead-link-checker)"

	// DefaultHistoryLimit is the number of past runs shown by the
	// history command.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "deadlink"
)

// Config holds all options for one run of the checker.
// It is populated from CLI flags and the optional config file, then passed
// through the application rather than living in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is small; nesting would add complexity
// without benefit.
type Config struct {
	// Seed is the address the crawl starts from. Required.
	Seed string

	// Concurrency is the number of workers draining the frontier.
	Concurrency int

	// Delay is the per-worker pacing delay between requests.
	Delay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Verbose enables the end-of-run listing of every checked address
	// and debug-level logging.
	Verbose bool

	// ConfigFilePath is the path to the config file. If empty, the tool
	// searches for .deadlink.yaml in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// Sites holds per-host overrides loaded from the config file.
	Sites *File

	// JSONReport selects machine-readable JSON output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, receives the report instead of stdout.
	ReportFile string

	// SaveToDB records the run in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	DBDir string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes read during
	// link extraction.
	MaxBodySize int64
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero, and the constructor doubles as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for the history database.
// On Linux: ~/.local/share/deadlink
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns a specific error
// describing the first problem found. It runs once after CLI parsing,
// before any crawling begins.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
