package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitediff/internal/model"
)

// SimpleWriter prints a short plain-text comparison summary for the
// terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every flagged URL, not just the counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every flagged URL.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(c *Comparison) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("SNAPSHOT COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Old: %s\n", c.OldSource)
	fmt.Fprintf(&sb, "New: %s\n\n", c.NewSource)

	fmt.Fprintf(&sb, "  URLS:      %d\n", c.Summary.Total)
	fmt.Fprintf(&sb, "  UNCHANGED: %d\n", c.Summary.Unchanged)
	fmt.Fprintf(&sb, "  FLAGGED:   %d\n", c.Summary.Flagged)
	for _, f := range model.AllFlags {
		if n := c.Summary.Count(f); n > 0 {
			fmt.Fprintf(&sb, "    %-22s %d\n", f.Name()+":", n)
		}
	}

	if w.verbose && c.Summary.Flagged > 0 {
		sb.WriteString("\n")
		for _, rec := range c.Records {
			if rec.Flags.Empty() {
				continue
			}
			fmt.Fprintf(&sb, "  * %s [%s]\n", rec.URL, rec.Flags)
		}
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}
