package config

// SiteConfig holds site-specific configuration for a single domain.
type SiteConfig struct {
	// Profile overrides the politeness profile ("fast" or "careful").
	Profile string `yaml:"profile,omitempty"`

	// Denylist adds URL substrings to skip on top of the built-in list.
	Denylist []string `yaml:"denylist,omitempty"`

	// Headers are extra HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxPages caps the number of records for this site.
	MaxPages int `yaml:"maxPages,omitempty"`
}

// File represents the structure of the .sitediff configuration file.
type File struct {
	// Sites maps domains to their site-specific configurations.
	// Keys are bare hosts (e.g., "example.com" or "localhost:8080").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a domain: the defaults merged
// with the site entry. Denylists of both levels are concatenated.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults
	result.Denylist = append([]string(nil), cf.Defaults.Denylist...)

	site, ok := cf.Sites[domain]
	if !ok {
		return result
	}

	if site.Profile != "" {
		result.Profile = site.Profile
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.MaxPages != 0 {
		result.MaxPages = site.MaxPages
	}
	if len(site.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(site.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range site.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}
	result.Denylist = append(result.Denylist, site.Denylist...)

	return result
}
