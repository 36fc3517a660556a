package report

import (
	"io"
	"time"

	"github.com/nao1215/sitediff/internal/diff"
	"github.com/nao1215/sitediff/internal/model"
)

// Comparison is everything a comparison writer renders.
type Comparison struct {
	// OldSource and NewSource identify the compared snapshots, e.g. file
	// paths or catalog references.
	OldSource string `json:"old_source"`
	NewSource string `json:"new_source"`

	// GeneratedAt is when the comparison was made.
	GeneratedAt time.Time `json:"generated_at"`

	// Records holds one entry per URL found in either snapshot.
	Records []model.ComparisonRecord `json:"records"`

	// Summary counts the records by flag.
	Summary diff.Summary `json:"summary"`
}

// NewComparison builds a Comparison and its summary.
func NewComparison(oldSource, newSource string, records []model.ComparisonRecord, generatedAt time.Time) *Comparison {
	return &Comparison{
		OldSource:   oldSource,
		NewSource:   newSource,
		GeneratedAt: generatedAt,
		Records:     records,
		Summary:     diff.Summarize(records),
	}
}

// Writer defines the interface for comparison output.
type Writer interface {
	// Write renders the comparison to the configured destination.
	// It returns the number of bytes written.
	Write(c *Comparison) (int, error)
}

// MultiWriter writes a comparison to several Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the comparison to all configured Writers.
// It stops on the first error.
func (m *MultiWriter) Write(c *Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(c)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter counts the bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
