// Package main provides the entry point for the sitediff CLI.
//
// sitediff crawls a single website, records a fingerprint of every resource
// it reaches, and compares two such snapshots to surface regressions.
//
// Usage:
//
//	sitediff crawl <domain>
//	sitediff compare <old-snapshot> <new-snapshot>
//
// See --help for all available options.
package main

// main is the entry point for sitediff.
func main() {
	Execute()
}
