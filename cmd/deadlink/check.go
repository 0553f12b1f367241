package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jthrilly/dead-link-checker/internal/config"
	"github.com/jthrilly/dead-link-checker/internal/crawler"
	"github.com/jthrilly/dead-link-checker/internal/database"
	"github.com/jthrilly/dead-link-checker/internal/log"
	"github.com/jthrilly/dead-link-checker/internal/model"
	"github.com/jthrilly/dead-link-checker/internal/report"
)

// ErrDeadLinksFound is returned when the crawl completes but dead links
// were found, so the process exits with status 1.
var ErrDeadLinksFound = errors.New("dead links found")

// progressInterval is how often the progress line on stderr is refreshed.
const progressInterval = 500 * time.Millisecond

// runCheckCmd executes the link check.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.Seed = strings.TrimSpace(args[0])
	}

	var err error

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrent")
	if err != nil {
		return nil, err
	}

	delayMS, err := cmd.Flags().GetInt("delay")
	if err != nil {
		return nil, err
	}
	cfg.Delay = time.Duration(delayMS) * time.Millisecond

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site configurations from the config file.
	// If the user explicitly specified a path, error if not found.
	// If no path was specified, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Sites = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	return cfg, nil
}

// runCheck crawls the site and reports the result.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Open the history database before crawling so a broken database
	// surfaces immediately instead of after a long run.
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Read the run back with `deadlink history`.
	}

	siteConfig := siteConfigFor(cfg, cfg.Seed)

	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	client := &http.Client{Timeout: cfg.Timeout}
	c := crawler.NewCrawler(client,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithDelay(cfg.Delay),
		crawler.WithUserAgent(userAgent),
		crawler.WithHeaders(siteConfig.Headers),
		crawler.WithCookie(siteConfig.Cookie),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithIgnorePatterns(siteConfig.IgnorePatterns),
		crawler.WithLogger(logger),
	)

	fmt.Fprintf(os.Stderr, "Checking %s...\n", cfg.Seed)

	stopProgress := startProgress(c)
	runReport, err := c.Run(ctx, cfg.Seed)
	stopProgress()
	if err != nil {
		return err
	}

	if err := outputReport(cfg, os.Stdout, runReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if db != nil {
		if err := saveRun(ctx, db, runReport, logger); err != nil {
			// A failed save must not mask the check result.
			logger.Error("failed to save run", "error", err)
		}
	}

	if dead := len(runReport.DeadLinks()); dead > 0 {
		return fmt.Errorf("%w: %d", ErrDeadLinksFound, dead)
	}
	return nil
}

// siteConfigFor returns the per-site overrides for the seed's host.
func siteConfigFor(cfg *config.Config, seed string) config.SiteConfig {
	if cfg.Sites == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(seed)
	if err != nil {
		return cfg.Sites.Defaults
	}
	host := u.Hostname()
	if host == "" {
		// A bare "example.com" seed parses as a path, not a host.
		if u, err = url.Parse("http://" + seed); err == nil {
			host = u.Hostname()
		}
	}

	return cfg.Sites.GetSiteConfig(host)
}

// startProgress renders a live checked/discovered line on stderr until the
// returned stop function is called. The discovered total grows while the
// crawl runs, so the denominator is a moving target.
func startProgress(c *crawler.Crawler) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				// Clear the progress line before the report prints.
				fmt.Fprintf(os.Stderr, "\r%40s\r", "")
				return
			case <-ticker.C:
				checked, discovered := c.Progress()
				fmt.Fprintf(os.Stderr, "\r%d/%d links checked", checked, discovered)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// outputReport writes the run report in the requested format. Without an
// output file the report goes to the terminal; with one, the file gets the
// requested format and the terminal still shows the plain summary so the
// outcome is visible without opening the file.
func outputReport(cfg *config.Config, terminal io.Writer, runReport *model.RunReport) error {
	if cfg.ReportFile == "" {
		_, err := formatWriter(cfg, terminal).Write(runReport)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can contain internal URLs, so keep them owner-readable.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Writer errors are reported below.

	writer := report.NewMultiWriter(
		formatWriter(cfg, f),
		report.NewSimpleWriter(terminal, report.WithVerbose(cfg.Verbose)),
	)
	_, err = writer.Write(runReport)
	return err
}

// formatWriter builds the report writer selected by the format flags.
func formatWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// saveRun records the run in the history database.
func saveRun(ctx context.Context, db *database.HistoryDB, runReport *model.RunReport, logger *slog.Logger) error {
	// Use a fresh context so an interrupted run is still recorded.
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	runID, err := db.SaveRun(ctx, runReport)
	if err != nil {
		return err
	}

	logger.Info("run saved", "runID", runID, "seed", runReport.Seed)
	return nil
}
