package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate and ProfileByName so callers
// can use errors.Is for programmatic handling.
var (
	// ErrNoTarget is returned when no domain to crawl is specified.
	ErrNoTarget = errors.New("no target specified: provide a domain to crawl")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProfile is returned for an unknown politeness profile name.
	ErrInvalidProfile = errors.New("unknown politeness profile")

	// ErrInvalidDelayRange is returned when a profile's delay range is
	// negative or inverted.
	ErrInvalidDelayRange = errors.New("invalid delay range: min must be non-negative and not greater than max")

	// ErrNoCaptureDir is returned when the capture directory is empty.
	ErrNoCaptureDir = errors.New("capture directory must not be empty")
)
