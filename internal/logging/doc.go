// Package logging provides structured logging utilities for the Drive addon.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Addon-type prefixing so records from several addons can share one sink
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithAction(slog.Default(), "download_document")
//	logger.Info("file downloaded",
//	    logging.FileID(fileID),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Access tokens are never logged directly. Use SanitizeToken when the
// presence or length of a token is relevant to a log line.
package logging
