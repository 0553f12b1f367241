// Package log provides structured logging helpers that redact credentials
// before they reach log output. Custom request headers and cookies from
// site configs can carry auth material, so every logger built here masks
// values whose keys or shapes look sensitive.
package log
