// Package crawler implements the crawl engine: the deduplicated work
// frontier with its termination protocol, the concurrency-bounded worker
// pool that drains it, URL normalization and origin classification, and
// the fetch-and-classify logic that turns HTTP responses into link
// outcomes and follow-up work.
package crawler
