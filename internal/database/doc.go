// Package database keeps a catalog of crawl snapshots in SQLite.
//
// Capture files are the primary output of a crawl. The catalog records the
// same rows alongside snapshot metadata (domain, start and finish time,
// profile, capture file path) so that snapshots can be listed per domain
// and compared by ID without hunting for files. A snapshot whose crawl was
// interrupted stays marked incomplete but keeps every row recorded so far.
//
// The catalog uses modernc.org/sqlite, a CGO-free driver, with WAL
// journaling and a single connection.
package database
