package crawler

import "errors"

var (
	// ErrTransport marks a fetch that failed below HTTP (DNS, connection,
	// timeout, truncated body). The URL is dropped from the crawl.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidStartURL is returned when the start URL has no host.
	ErrInvalidStartURL = errors.New("invalid start URL")
)
