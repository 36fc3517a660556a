// Package log builds the slog loggers used by sitediff.
//
// Crawled sites frequently carry credentials in places that end up in log
// lines: session identifiers in query strings, tokens in configured request
// headers, basic-auth user info in proxy addresses. SecureHandler wraps any
// slog.Handler and masks those values before they are written.
//
// Masking rules:
//   - attributes whose key names a credential (cookie, authorization,
//     token, password, ...) are replaced by MaskValue
//   - string values that look like a credential (JWT, bearer or basic
//     auth, AWS access key, PEM private key) are replaced by MaskValue
//   - string values that parse as an absolute URL keep their shape, but
//     sensitive query parameters and any user password are masked
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Info("crawling", "url", "https://example.com/?session=abc")
//	// url=https://example.com/?session=***REDACTED***
package log
