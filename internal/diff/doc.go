// Package diff reconciles two capture snapshots into a flagged comparison.
//
// Every URL present in either snapshot yields exactly one
// model.ComparisonRecord. Flags are derived per URL from which sides carry
// the URL and from the recorded status, size and height strings. Values
// are compared as the exact strings found in the snapshots.
package diff
