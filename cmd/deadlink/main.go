// Package main provides the entry point for the deadlink CLI.
//
// deadlink crawls a website from a seed URL and reports every dead link it
// finds. Pages on the seed's origin are crawled recursively; links to other
// origins are checked once and never followed.
//
// Usage:
//
//	deadlink https://example.com
//	deadlink history
//
// See --help for all available options.
package main

// main is the entry point for deadlink.
func main() {
	Execute()
}
