package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/sitediff/internal/model"
)

const (
	fieldSeparator = "\t"
	lineTerminator = "\n"
)

// Writer appends capture records to a snapshot. Every record is flushed to
// the underlying file before Record returns.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	out    io.Writer
	buf    *bufio.Writer
	closer io.Closer
	path   string
	count  int
	closed bool
}

// Create creates dir if needed, creates the capture file for a crawl of
// domain started at t and writes the header line.
func Create(dir, domain string, t time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	path := filepath.Join(dir, FileName(domain, t))
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture file: %w", err)
	}

	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	w.path = path
	return w, nil
}

// NewWriter writes the header line to out and returns a Writer appending to
// it. Closing the Writer does not close out.
func NewWriter(out io.Writer) (*Writer, error) {
	w := &Writer{
		out: out,
		buf: bufio.NewWriter(out),
	}
	if err := w.writeLine(model.SnapshotHeader); err != nil {
		return nil, fmt.Errorf("failed to write capture header: %w", err)
	}
	return w, nil
}

// Record implements crawler.Recorder.
func (w *Writer) Record(rec model.CaptureRecord) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.writeLine(rec.Row().Fields()); err != nil {
		return fmt.Errorf("failed to write capture record %s: %w", rec.URL, err)
	}
	w.count++
	return nil
}

// Path returns the file path, or "" when the Writer was built by NewWriter.
func (w *Writer) Path() string {
	return w.path
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes pending data and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.buf.Flush()
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}

func (w *Writer) writeLine(fields []string) error {
	if _, err := w.buf.WriteString(strings.Join(fields, fieldSeparator) + lineTerminator); err != nil {
		return err
	}
	return w.buf.Flush()
}
