package crawler

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL for dedup and comparison by stripping every
// trailing '/'. Nothing else is touched: scheme and host case, query strings
// and default ports are preserved, so two equivalent URLs written
// differently remain distinct.
func Normalize(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}

// Resolve resolves ref against the absolute base URL and normalizes the
// result. Surrounding whitespace in ref is ignored.
func Resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return resolveAgainst(b, ref)
}

func resolveAgainst(base *url.URL, ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return Normalize(base.ResolveReference(r).String()), nil
}
