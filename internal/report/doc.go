// Package report renders run results in multiple formats: human-readable
// terminal text, JSON for tool integration, and Markdown for sharing.
package report
