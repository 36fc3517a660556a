// Package model defines the data structures shared by the crawler, the
// snapshot store and the diff engine.
//
// This package contains the following main types:
//   - CaptureRecord: the fingerprint of one fetched resource
//   - Row: one snapshot line as read back from disk
//   - Snapshot: an ordered, URL-indexed set of rows from one crawl
//   - ComparisonRecord: the reconciled view of one URL across two snapshots
//   - Flag: the regression conditions raised by a comparison
//
// Models live in their own package so that crawler, snapshot, diff, report
// and database can all depend on them without import cycles.
package model
