package database

import (
	"context"

	"github.com/nao1215/sitediff/internal/model"
)

// SnapshotRecorder appends capture records to one catalogued snapshot.
// It implements crawler.Recorder.
type SnapshotRecorder struct {
	catalog    *Catalog
	ctx        context.Context //nolint:containedctx // Record has no context parameter.
	snapshotID int64
	seq        int
}

// Recorder returns a recorder storing rows under snapshotID. ctx bounds
// every insert.
func (c *Catalog) Recorder(ctx context.Context, snapshotID int64) *SnapshotRecorder {
	return &SnapshotRecorder{
		catalog:    c,
		ctx:        ctx,
		snapshotID: snapshotID,
	}
}

// Record implements crawler.Recorder.
func (r *SnapshotRecorder) Record(rec model.CaptureRecord) error {
	if err := r.catalog.AddCapture(r.ctx, r.snapshotID, r.seq, rec); err != nil {
		return err
	}
	r.seq++
	return nil
}

// Count returns the number of rows recorded.
func (r *SnapshotRecorder) Count() int {
	return r.seq
}
