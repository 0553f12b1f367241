package crawler

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// extractLinks parses an HTML document and returns the normalized address
// of every anchor href, resolved against the page's own URL. Hrefs that
// fail normalization are dropped silently; a malformed link in a page is
// not an error for the crawl.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. Standard library extension, well-maintained
func extractLinks(content io.Reader, base *url.URL) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if address, ok := Normalize(href, base); ok {
					links = append(links, address)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isHTML reports whether a Content-Type header denotes an HTML document.
// Only HTML responses are parsed for further links.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}

// matchesAny reports whether the URL path of an address matches any of the
// given glob patterns. Patterns like "/admin/*" match whole path subtrees,
// "*.pdf" matches by extension, and everything else goes through
// path.Match semantics.
func matchesAny(patterns []string, address string) bool {
	if len(patterns) == 0 {
		return false
	}
	u, err := url.Parse(address)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	for _, pattern := range patterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a glob pattern.
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard", "/admin/users"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, p string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(p, prefix+"/") || p == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(p, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	matched, err := path.Match(pattern, p)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a slash also match against the last path segment,
	// so "*.pdf" works for nested paths.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := path.Match(pattern, path.Base(p))
		return err == nil && matched
	}

	return false
}
