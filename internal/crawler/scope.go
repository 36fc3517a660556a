package crawler

import (
	"net/url"
	"strings"
)

// Scope decides which URLs belong to a crawl.
type Scope struct {
	// Domain is the host (including any port) a URL must match exactly.
	// Subdomains are out of scope.
	Domain string

	// Denylist holds substrings; a URL containing any of them is never
	// fetched or enqueued.
	Denylist []string
}

// NewScope creates a Scope for domain with the given denylist.
func NewScope(domain string, denylist []string) Scope {
	return Scope{
		Domain:   domain,
		Denylist: append([]string(nil), denylist...),
	}
}

// InScope reports whether rawURL is on the crawl's host and carries no
// fragment. Fragment links point into a page already covered by its
// fragment-free URL.
func (s Scope) InScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == s.Domain && u.Fragment == ""
}

// IsDenylisted reports whether rawURL contains any denylisted substring.
func (s Scope) IsDenylisted(rawURL string) bool {
	for _, term := range s.Denylist {
		if term != "" && strings.Contains(rawURL, term) {
			return true
		}
	}
	return false
}

// Follow reports whether a discovered link should be handed to the frontier.
func (s Scope) Follow(rawURL string) bool {
	return s.InScope(rawURL) && !s.IsDenylisted(rawURL)
}
