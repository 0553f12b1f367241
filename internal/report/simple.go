package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/jthrilly/dead-link-checker/internal/model"
)

// timePrecision is how finely run durations are rendered.
const timePrecision = 10 * time.Millisecond

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display: a summary line, the dead
// links (if any), and in verbose mode every address that was checked.
//
// Design decision: We use the fatih/color package for the ✓/✗ markers
// because:
// 1. It disables itself automatically when output is not a terminal
// 2. Piped or redirected output stays plain text
// 3. NO_COLOR and similar conventions are honored for free
type SimpleWriter struct {
	baseWriter

	// verbose lists every checked address, not only the dead ones.
	verbose bool

	ok   *color.Color
	dead *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables listing every checked address with its status.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
		ok:         color.New(color.FgGreen),
		dead:       color.New(color.FgRed, color.Bold),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	summary := model.NewSummary(report)

	w.writeHeader(&sb, report)

	if w.verbose {
		w.writeAllOutcomes(&sb, report)
	}

	w.writeDeadLinks(&sb, report)
	w.writeSummary(&sb, report, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the seed and timing information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(fmt.Sprintf("Checked %s\n", report.Seed))
	if report.Interrupted {
		sb.WriteString("Status: interrupted (partial results)\n")
	}
	sb.WriteString("\n")
}

// writeAllOutcomes lists every checked address with a status marker.
func (w *SimpleWriter) writeAllOutcomes(sb *strings.Builder, report *model.RunReport) {
	for _, o := range report.Outcomes {
		if o.IsDead() {
			sb.WriteString(fmt.Sprintf("  %s %s\n", w.dead.Sprint("✗"), o.String()))
		} else {
			sb.WriteString(fmt.Sprintf("  %s %s [%s]\n", w.ok.Sprint("✓"), o.Address, o.StatusText()))
		}
	}
	sb.WriteString("\n")
}

// writeDeadLinks lists the dead links, one per line with the referrer-free
// "address — status (reason)" form.
func (w *SimpleWriter) writeDeadLinks(sb *strings.Builder, report *model.RunReport) {
	dead := report.DeadLinks()
	if len(dead) == 0 {
		return
	}

	sb.WriteString(w.dead.Sprint("Dead links:"))
	sb.WriteString("\n")
	for _, o := range dead {
		sb.WriteString(fmt.Sprintf("  %s %s\n", w.dead.Sprint("✗"), o.String()))
	}
	sb.WriteString("\n")
}

// writeSummary writes the final count line.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport, summary model.Summary) {
	if summary.Dead == 0 {
		sb.WriteString(fmt.Sprintf("%s %d links checked, no dead links found (%s)\n",
			w.ok.Sprint("✓"), summary.Total, report.Duration.Round(timePrecision)))
		return
	}

	sb.WriteString(fmt.Sprintf("%s %d links checked, %d dead (%s)\n",
		w.dead.Sprint("✗"), summary.Total, summary.Dead, report.Duration.Round(timePrecision)))
}
