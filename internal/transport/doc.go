// Package transport builds the HTTP client used by the crawler.
//
// The client caps redirects, applies a request timeout, injects configured
// headers into every request and can optionally route all connections
// through a SOCKS5 proxy.
package transport
