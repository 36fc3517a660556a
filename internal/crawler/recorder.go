package crawler

import (
	"errors"

	"github.com/nao1215/sitediff/internal/model"
)

// Recorder receives each CaptureRecord as soon as it is produced, in
// discovery order. A Recorder error stops the crawl.
type Recorder interface {
	Record(rec model.CaptureRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(rec model.CaptureRecord) error

// Record implements Recorder.
func (f RecorderFunc) Record(rec model.CaptureRecord) error {
	return f(rec)
}

// MultiRecorder forwards every record to all of its recorders.
type MultiRecorder []Recorder

// Record implements Recorder. Every recorder sees the record even if an
// earlier one fails; the errors are joined.
func (m MultiRecorder) Record(rec model.CaptureRecord) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
