package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jthrilly/dead-link-checker/internal/config"
)

// NewRootCmd creates the root command for deadlink.
// Checking is the root command itself rather than a subcommand: the common
// invocation is just `deadlink <url>`.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlink [url]",
		Short: "Find dead links on a website",
		Long: `deadlink crawls a website starting from the given URL and reports every
dead link it finds.

Pages on the starting URL's origin (scheme + host + port) are crawled
recursively; links pointing to other origins are checked once but never
followed. A link is dead when it returns an HTTP status of 400 or higher,
cannot be fetched at all, or redirects without a Location header.

Examples:
  # Check a site
  deadlink https://example.com

  # List every checked link, not only the dead ones
  deadlink -v https://example.com

  # Write a JSON report to a file
  deadlink --json -o report.json https://example.com

  # Show past runs
  deadlink history

Configuration file (.deadlink.yaml) example:
  sites:
    docs.example.com:
      cookie: "session=abc123"
      headers:
        Authorization: "Bearer token"
      ignorePatterns:
        - "/logout*"
        - "*.pdf"`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheckCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")

	// Crawl behavior flags
	cmd.Flags().Int("concurrent", config.DefaultConcurrency,
		"Number of concurrent workers")
	cmd.Flags().Int("delay", int(config.DefaultDelay.Milliseconds()),
		"Per-worker delay between requests in milliseconds")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .deadlink.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Any error, including dead links being
// found, exits with status 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
