package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jthrilly/dead-link-checker/internal/config"
	"github.com/jthrilly/dead-link-checker/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs from the history database",
		Long: `History lists recent runs recorded in the local history database,
newest first. Each line shows when the run happened, what site was checked,
and how many dead links were found.

With --dead, the dead links of each listed run are printed under its line,
so a past failure can be inspected without re-running the check.

Runs are recorded automatically unless a check is started with --no-save.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int("limit", config.DefaultHistoryLimit,
		"Maximum number of runs to list")
	cmd.Flags().Bool("dead", false,
		"Show the dead links of each listed run")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("invalid limit %d: must be positive", limit)
	}

	showDead, err := cmd.Flags().GetBool("dead")
	if err != nil {
		return err
	}

	return listHistory(cmd.Context(), cmd.OutOrStdout(), config.XDGDataDir(), limit, showDead)
}

// listHistory renders the recent-runs table, and with showDead the dead
// links recorded for each run.
func listHistory(ctx context.Context, out io.Writer, dbDir string, limit int, showDead bool) error {
	// Do not create an empty database just to list nothing.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		fmt.Fprintln(out, "No history yet. Run a check first.")
		return nil
	}
	defer db.Close() //nolint:errcheck // Read-only access.

	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No history yet. Run a check first.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSITE\tCHECKED\tDEAD\tDURATION")
	for _, r := range runs {
		status := fmt.Sprintf("%d", r.DeadLinks)
		if r.Interrupted {
			status += " (interrupted)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Seed,
			r.TotalLinks,
			status,
			r.Duration.Round(10*time.Millisecond),
		)

		if !showDead || r.DeadLinks == 0 {
			continue
		}
		dead, err := db.DeadForRun(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to read dead links for run %d: %w", r.ID, err)
		}
		for _, o := range dead {
			fmt.Fprintf(w, "  %s\t\t\t\t\n", o.String())
		}
	}
	return w.Flush()
}
