package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitediff/internal/model"
)

// MarkdownWriter renders a comparison summary in Markdown.
// Only flagged URLs are listed; unchanged URLs are counted.
type MarkdownWriter struct {
	baseWriter

	// maxRows caps the flagged URL table. 0 means no cap.
	maxRows int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMaxRows caps the number of flagged URLs listed.
func WithMaxRows(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.maxRows = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *MarkdownWriter) Write(c *Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, c)
	w.writeSummary(md, c)
	w.writeFlagged(md, c)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the compared snapshots.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, c *Comparison) {
	md.H1("Snapshot Comparison")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Old snapshot", "`" + c.OldSource + "`"},
			{"New snapshot", "`" + c.NewSource + "`"},
			{"Generated", c.GeneratedAt.Format(displayTimeLayout)},
			{"URLs compared", strconv.Itoa(c.Summary.Total)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the per-flag counts, the pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, c *Comparison) {
	md.H2("Flag Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.AllFlags)+2)
	for _, f := range model.AllFlags {
		rows = append(rows, []string{f.Name(), strconv.Itoa(c.Summary.Count(f))})
	}
	rows = append(rows,
		[]string{"Unchanged", strconv.Itoa(c.Summary.Unchanged)},
		[]string{"**Total**", "**" + strconv.Itoa(c.Summary.Total) + "**"},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Flag", "URLs"},
		Rows:   rows,
	})
	md.PlainText("")

	if c.Summary.Flagged > 0 {
		w.writePieChart(md, c)
	}
	w.writeAlert(md, c)
}

// writePieChart writes a mermaid pie chart of flag counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, c *Comparison) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Flag Distribution"),
		piechart.WithShowData(true),
	)

	for _, f := range model.AllFlags {
		if n := c.Summary.Count(f); n > 0 {
			chart.LabelAndIntValue(f.Name(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most serious flag found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, c *Comparison) {
	s := c.Summary
	switch {
	case s.Count(model.FlagFatalError) > 0:
		md.Cautionf("%d URL(s) answer with a server error in the new snapshot.", s.Count(model.FlagFatalError))
	case s.Count(model.FlagNotFoundInNew) > 0:
		md.Warningf("%d URL(s) are missing or not found in the new snapshot.", s.Count(model.FlagNotFoundInNew))
	case s.Count(model.FlagStatusCodeDifferent) > 0:
		md.Importantf("%d URL(s) changed their status code.", s.Count(model.FlagStatusCodeDifferent))
	case s.Flagged > 0:
		md.Note("Only content size or height changes and new URLs were found.")
	default:
		md.Tip("No differences found between the snapshots.")
	}
	md.PlainText("")
}

// writeFlagged lists every flagged URL.
func (w *MarkdownWriter) writeFlagged(md *markdown.Markdown, c *Comparison) {
	md.H2("Flagged URLs")
	md.PlainText("")

	if c.Summary.Flagged == 0 {
		md.PlainText("No flagged URLs.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, c.Summary.Flagged)
	for _, rec := range c.Records {
		if rec.Flags.Empty() {
			continue
		}
		if w.maxRows > 0 && len(rows) == w.maxRows {
			break
		}
		rows = append(rows, []string{
			rec.Type,
			truncateString(rec.URL, 80),
			rec.OldStatus + " → " + rec.NewStatus,
			rec.OldSize + " → " + rec.NewSize,
			rec.OldHeight + " → " + rec.NewHeight,
			rec.Flags.String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Type", "URL", "Status", "Size", "Height", "Flags"},
		Rows:   rows,
	})
	md.PlainText("")

	if hidden := c.Summary.Flagged - len(rows); hidden > 0 {
		md.PlainTextf("*%d more flagged URL(s) omitted.*", hidden)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitediff](https://github.com/nao1215/sitediff)*")
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
