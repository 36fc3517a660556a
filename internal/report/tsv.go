package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/nao1215/sitediff/internal/model"
)

// TSVWriter writes the tab-separated comparison file: the header line and
// one line per record.
type TSVWriter struct {
	baseWriter
}

// NewTSVWriter creates a TSVWriter that outputs to the given writer.
func NewTSVWriter(output io.Writer) *TSVWriter {
	return &TSVWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *TSVWriter) Write(c *Comparison) (int, error) {
	cw := &countingWriter{w: w.output}
	bw := bufio.NewWriter(cw)

	if _, err := bw.WriteString(strings.Join(model.ComparisonHeader, "\t") + "\n"); err != nil {
		return cw.n, err
	}
	for _, rec := range c.Records {
		if _, err := bw.WriteString(strings.Join(rec.Fields(), "\t") + "\n"); err != nil {
			return cw.n, err
		}
	}

	err := bw.Flush()
	return cw.n, err
}
