// Package model defines the core data structures used throughout the
// dead-link checker.
//
// This package contains the following main types:
//   - LinkOutcome: The result of checking a single address
//   - RunReport: The full record of one crawl run
//   - Summary: Aggregate counts derived from a RunReport
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
