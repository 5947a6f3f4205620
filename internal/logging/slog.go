package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyAddonType = "addon_type"
	KeyAddonID   = "addon_id"
	KeyAction    = "action"
	KeyOperation = "operation"
	KeyFileID    = "file_id"
	KeyStatus    = "status"
	KeyCode      = "code"
	KeyError     = "error"
	KeyTool      = "tool"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithAddonType returns a logger that tags every record with the upper-cased addon type.
func WithAddonType(logger *slog.Logger, addonType string) *slog.Logger {
	return logger.With(slog.String(KeyAddonType, strings.ToUpper(addonType)))
}

// WithAction returns a logger with the action attribute set.
func WithAction(logger *slog.Logger, action string) *slog.Logger {
	return logger.With(slog.String(KeyAction, action))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// FileID returns a slog attribute for a Drive file ID.
func FileID(id string) slog.Attr {
	return slog.String(KeyFileID, id)
}

// AddonID returns a slog attribute for the addon instance ID.
func AddonID(id string) slog.Attr {
	return slog.String(KeyAddonID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Code returns a slog attribute for a response code.
func Code(code int) slog.Attr {
	return slog.Int(KeyCode, code)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes (like JWT headers) can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// SanitizeSecrets returns a copy of secrets with every value masked by SanitizeToken.
func SanitizeSecrets(secrets map[string]string) map[string]string {
	masked := make(map[string]string, len(secrets))
	for k, v := range secrets {
		masked[k] = SanitizeToken(v)
	}
	return masked
}
