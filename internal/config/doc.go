// Package config provides configuration for the dead-link checker: the
// flat run configuration built from CLI flags, its validation, and the
// optional YAML config file with per-host overrides.
package config
