package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin is the scheme+host+port of the seed address. Every discovered
// address is classified against it: same origin means the page is crawled
// recursively, anything else is checked once and never followed.
type Origin struct {
	scheme string
	host   string
}

// OriginOf derives the Origin from a parsed seed URL.
func OriginOf(u *url.URL) Origin {
	return Origin{
		scheme: strings.ToLower(u.Scheme),
		host:   strings.ToLower(u.Host),
	}
}

// Contains reports whether the given address belongs to this origin.
func (o Origin) Contains(address string) bool {
	u, err := url.Parse(address)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, o.scheme) && strings.EqualFold(u.Host, o.host)
}

// String renders the origin as scheme://host[:port].
func (o Origin) String() string {
	return fmt.Sprintf("%s://%s", o.scheme, o.host)
}

// Normalize canonicalizes a raw href into a comparable absolute address,
// resolved against the page it was found on. It returns false for hrefs
// that must never become addresses: empty strings, pure fragments,
// mailto:/javascript:/tel:/data: schemes, about:blank, and anything that
// fails URL parsing.
//
// Two hrefs denoting the same resource normalize identically: the fragment
// is dropped before resolution, scheme and host are lowercased, and a
// single trailing slash on the path is stripped.
func Normalize(href string, base *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "about:blank" {
		return "", false
	}
	if strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return "", false
	}

	// Drop the fragment before resolution so /a/b and /a/b#frag are the
	// same address.
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
		if href == "" {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// One trailing slash is stripped, except from the bare root: "/a/b/"
	// and "/a/b" are the same address, and so are "https://host" and
	// "https://host/", canonicalized with the root slash kept.
	if u.Path == "" {
		u.Path = "/"
	} else if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), true
}
