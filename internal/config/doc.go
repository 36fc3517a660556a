// Package config provides configuration structures and utilities for sitediff.
// It defines the crawl settings, politeness profiles, output locations and
// the optional YAML configuration file with per-site overrides.
package config
