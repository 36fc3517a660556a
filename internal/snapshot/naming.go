package snapshot

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileExt is the extension of capture files.
	FileExt = ".txt"

	// TimestampLayout formats the crawl start time in file names.
	TimestampLayout = "2006-01-02-15-04-05"

	captureInfix = "-capture-"

	// portSeparator replaces ':' in the domain, which Windows file names
	// cannot hold. Host names never contain '_'.
	portSeparator = "_"
)

// FileName returns the capture file name for a crawl of domain started at t.
// A port in domain is written as "_port".
func FileName(domain string, t time.Time) string {
	return strings.ReplaceAll(domain, ":", portSeparator) + captureInfix + t.Format(TimestampLayout) + FileExt
}

// ParseFileName recovers the domain and crawl time from a capture file name
// or path. It returns false when the name does not follow the scheme.
func ParseFileName(name string) (string, time.Time, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, FileExt) {
		return "", time.Time{}, false
	}
	base = strings.TrimSuffix(base, FileExt)

	i := strings.LastIndex(base, captureInfix)
	if i <= 0 {
		return "", time.Time{}, false
	}

	t, err := time.ParseInLocation(TimestampLayout, base[i+len(captureInfix):], time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return strings.ReplaceAll(base[:i], portSeparator, ":"), t, true
}
