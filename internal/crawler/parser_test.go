package crawler

import (
	"strings"
	"testing"
)

// TestExtractLinks tests anchor extraction and normalization from HTML.
func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves and normalizes anchors", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="/about">About</a>
			<a href="contact/">Contact</a>
			<a href="https://other.test/x#section">External</a>
			<nav><a href="/nested/deep">Nested</a></nav>
		</body></html>`

		base := mustParse(t, "https://site.test")
		links, err := extractLinks(strings.NewReader(doc), base)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		want := []string{
			"https://site.test/about",
			"https://site.test/contact",
			"https://other.test/x",
			"https://site.test/nested/deep",
		}
		if len(links) != len(want) {
			t.Fatalf("expected %d links, got %d: %v", len(want), len(links), links)
		}
		for i, w := range want {
			if links[i] != w {
				t.Errorf("link[%d] = %q, want %q", i, links[i], w)
			}
		}
	})

	t.Run("drops excluded and malformed hrefs", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="#top">Top</a>
			<a href="mailto:x@y.com">Mail</a>
			<a href="javascript:void(0)">JS</a>
			<a href="">Empty</a>
			<a href="about:blank">Blank</a>
			<a href="http://%zz">Malformed</a>
			<a>No href</a>
			<a href="/only">Only</a>
		</body></html>`

		base := mustParse(t, "https://site.test")
		links, err := extractLinks(strings.NewReader(doc), base)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(links) != 1 || links[0] != "https://site.test/only" {
			t.Errorf("expected only /only to survive, got %v", links)
		}
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><p>unclosed<a href="/a">link<div></body>`

		base := mustParse(t, "https://site.test")
		links, err := extractLinks(strings.NewReader(doc), base)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(links) != 1 || links[0] != "https://site.test/a" {
			t.Errorf("expected /a, got %v", links)
		}
	})
}

// TestIsHTML tests content-type gating for link extraction.
func TestIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"application/json", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isHTML(tt.contentType); got != tt.want {
			t.Errorf("isHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

// TestMatchesAny tests ignore-pattern matching against URL paths.
func TestMatchesAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		address  string
		want     bool
	}{
		{name: "no patterns", patterns: nil, address: "https://site.test/a", want: false},
		{name: "subtree match", patterns: []string{"/admin/*"}, address: "https://site.test/admin/users", want: true},
		{name: "subtree root match", patterns: []string{"/admin/*"}, address: "https://site.test/admin", want: true},
		{name: "subtree miss", patterns: []string{"/admin/*"}, address: "https://site.test/public", want: false},
		{name: "extension match", patterns: []string{"*.pdf"}, address: "https://site.test/docs/manual.pdf", want: true},
		{name: "single segment glob", patterns: []string{"/api/v?"}, address: "https://site.test/api/v2", want: true},
		{name: "prefix glob", patterns: []string{"/logout*"}, address: "https://site.test/logout?next=home", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := matchesAny(tt.patterns, tt.address); got != tt.want {
				t.Errorf("matchesAny(%v, %q) = %v, want %v", tt.patterns, tt.address, got, tt.want)
			}
		})
	}
}
