// Package snapshot stores crawl results as tab-separated capture files and
// reads them back for comparison.
//
// A capture file is named "<domain>-capture-<YYYY-MM-DD-HH-MM-SS>.txt" and
// starts with the header line "Type\tURL\tStatus_Code\tSize\tHeight". The
// Writer appends and flushes one line per record, so a crawl that is
// interrupted still leaves a readable file behind. The reader is lenient:
// malformed lines are skipped and a truncated last line is ignored.
package snapshot
