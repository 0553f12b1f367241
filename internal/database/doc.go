// Package database stores run history in a local SQLite database, so past
// crawl results can be listed and compared without re-checking a site.
package database
