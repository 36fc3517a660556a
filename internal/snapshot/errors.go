package snapshot

import "errors"

var (
	// ErrNoHeader is returned when a capture file is empty.
	ErrNoHeader = errors.New("capture file has no header line")

	// ErrClosed is returned when recording into a closed Writer.
	ErrClosed = errors.New("capture writer is closed")
)
