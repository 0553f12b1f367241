package config

// SiteConfig holds per-host overrides for crawling a particular site:
// credentials for private pages and patterns for URLs that must not be
// visited (logout links break sessions, binary downloads waste time).
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with every request to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IgnorePatterns are URL path patterns to skip during crawling,
	// matched with glob syntax (e.g. "/logout*", "*.pdf").
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .deadlink.yaml configuration file.
type File struct {
	// Sites maps host names to their overrides. Keys are bare hosts
	// (e.g. "docs.example.com"), without a scheme.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains configuration applied to every site unless
	// overridden in a site-specific entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
	}

	return result
}
