package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/jthrilly/dead-link-checker/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation, CI artifacts, and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	summary := model.NewSummary(report)

	w.writeHeader(md, report, summary)
	w.writeSummary(md, report, summary)
	w.writeDeadLinks(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport, summary model.Summary) {
	md.H1("Dead Link Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Seed + "`"},
			{"Checked", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(timePrecision).String()},
			{"Links Checked", strconv.Itoa(summary.Total)},
			{"Status", w.statusText(report, summary)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.RunReport, summary model.Summary) string {
	if report.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	if summary.Dead > 0 {
		return "❌ Dead links found"
	}
	return "✅ All links alive"
}

// writeSummary writes the count summary with an alert and pie chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport, summary model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"✅ OK", strconv.Itoa(summary.OK)},
			{"❌ Dead", strconv.Itoa(summary.Dead)},
			{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}

	switch {
	case summary.Dead > 0:
		md.Cautionf("%d dead link(s) found. See the listing below.", summary.Dead)
	case report.Interrupted:
		md.Warningf("The run was interrupted; %d link(s) were checked before it stopped.", summary.Total)
	default:
		md.Tip("No dead links detected.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the result split.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Check Results"),
		piechart.WithShowData(true),
	)

	if summary.OK > 0 {
		chart.LabelAndIntValue("OK", uint64(summary.OK))
	}
	if summary.Dead > 0 {
		chart.LabelAndIntValue("Dead", uint64(summary.Dead))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDeadLinks writes the dead-link table.
func (w *MarkdownWriter) writeDeadLinks(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Dead Links")
	md.PlainText("")

	dead := report.DeadLinks()
	if len(dead) == 0 {
		md.PlainText("No dead links found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(dead))
	for i, o := range dead {
		reason := o.Err
		if reason == "" {
			reason = "-"
		}
		rows[i] = []string{
			"`" + o.Address + "`",
			o.StatusText(),
			truncateString(reason, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Address", "Status", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [deadlink](https://github.com/jthrilly/dead-link-checker)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
