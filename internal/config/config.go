package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitediff"

	// DefaultScheme is prepended to a bare domain to build the start URL.
	DefaultScheme = "https"

	// DefaultTimeout bounds a single HTTP request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages of 0 means the crawl runs until the frontier is empty.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies sitediff in HTTP requests.
	DefaultUserAgent = "sitediff/1.0 (+https://github.com/nao1215/sitediff)"

	// DefaultMaxBodySize caps how much of a body is buffered for HTML parsing.
	// The recorded size always reflects the full body.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultCaptureDir is where capture snapshots are written and listed.
	DefaultCaptureDir = "captures"

	// DefaultCompareDir is where comparison outputs are written.
	DefaultCompareDir = "compares"

	// DefaultProfileName is used when no profile is requested.
	DefaultProfileName = ProfileCareful
)

// Config holds all configuration options for a crawl.
// It is populated from CLI flags and the optional config file, then passed
// explicitly to the components that need it.
type Config struct {
	// Target is the domain (optionally with scheme and port) to crawl.
	Target string

	// Profile is the politeness profile controlling the delay between fetches.
	Profile Profile

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxPages stops the crawl after this many records. 0 means unlimited.
	MaxPages int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize caps how many body bytes are buffered for parsing.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// Headers are extra request headers sent with every request.
	Headers map[string]string

	// Denylist holds the substrings that exclude a URL from the crawl.
	Denylist []string

	// CaptureDir is the directory for capture snapshots.
	CaptureDir string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// SiteConfigs holds the configuration file contents.
	SiteConfigs *File

	// Verbose enables debug logging.
	Verbose bool

	// UseCatalog records the crawl in the SQLite snapshot catalog.
	UseCatalog bool

	// DBDir is the directory holding the catalog database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	profile, _ := ProfileByName(DefaultProfileName) //nolint:errcheck // built-in profile
	return &Config{
		Profile:     profile,
		Timeout:     DefaultTimeout,
		MaxPages:    DefaultMaxPages,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Denylist:    DefaultDenylist(),
		CaptureDir:  DefaultCaptureDir,
		UseCatalog:  true,
		DBDir:       XDGDataDir(),
	}
}

// DefaultDenylist returns a fresh copy of the built-in denylist.
func DefaultDenylist() []string {
	return []string{".php", "/wp-json/", "/wp-admin/"}
}

// XDGDataDir returns the XDG data directory for sitediff.
// On Linux: ~/.local/share/sitediff
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigFile returns the config file path inside the XDG config directory.
// On Linux: ~/.config/sitediff/config.yaml
func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// ApplySite merges a site configuration into c. Denylist entries extend the
// current list; scalar values replace the current value when set.
func (c *Config) ApplySite(site SiteConfig) error {
	if site.Profile != "" {
		p, err := ProfileByName(site.Profile)
		if err != nil {
			return err
		}
		c.Profile = p
	}
	if site.UserAgent != "" {
		c.UserAgent = site.UserAgent
	}
	if site.MaxPages > 0 {
		c.MaxPages = site.MaxPages
	}
	if len(site.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			c.Headers[k] = v
		}
	}
	c.Denylist = appendUnique(c.Denylist, site.Denylist...)
	return nil
}

func appendUnique(list []string, items ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		seen[s] = true
	}
	for _, s := range items {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		list = append(list, s)
	}
	return list
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if c.CaptureDir == "" {
		return ErrNoCaptureDir
	}
	return nil
}
