package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate() so callers can use
// errors.Is() while still getting human-readable messages.
var (
	// ErrNoSeed is returned when no seed URL was supplied. This is the
	// usage error: the process exits before any crawling begins.
	ErrNoSeed = errors.New("no seed URL specified: provide the site to check as an argument")

	// ErrInvalidConcurrency is returned when the worker count is not
	// positive. Zero workers would mean no crawling at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDelay is returned when the pacing delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would cause immediate failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
