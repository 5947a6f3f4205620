package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// ActionInvocation captures one addon action call for audit logging.
//
// # Privacy Considerations
//
// FileID identifies a user document. Unless the audit logger is configured
// with IncludeFileIDs, it is masked with MaskFileID before being logged.
type ActionInvocation struct {
	// Action name (list_documents, delete_document, download_document)
	Action string

	// Addon instance the action ran against
	AddonID string

	// Drive file or folder the action targeted
	FileID string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Code      int
	Tokens    int
	Message   string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewActionInvocation creates a new ActionInvocation with timing started.
// Call Complete() when the action finishes.
func NewActionInvocation(action string) *ActionInvocation {
	return &ActionInvocation{
		Action:    action,
		StartTime: time.Now(),
	}
}

// WithAddonID sets the addon instance identifier.
func (ai *ActionInvocation) WithAddonID(id string) *ActionInvocation {
	ai.AddonID = id
	return ai
}

// WithFileID sets the targeted Drive file or folder.
func (ai *ActionInvocation) WithFileID(id string) *ActionInvocation {
	ai.FileID = id
	return ai
}

// WithSpanContext extracts trace context from the current span.
func (ai *ActionInvocation) WithSpanContext(ctx context.Context) *ActionInvocation {
	ai.TraceID = GetTraceID(ctx)
	ai.SpanID = GetSpanID(ctx)
	return ai
}

// Complete records the response outcome and calculates duration.
// Returns the same ActionInvocation for method chaining.
func (ai *ActionInvocation) Complete(code, tokens int, message string) *ActionInvocation {
	ai.Duration = time.Since(ai.StartTime)
	ai.Code = code
	ai.Tokens = tokens
	ai.Message = message
	return ai
}

// Success reports whether the action answered with a 2xx code.
func (ai *ActionInvocation) Success() bool {
	return StatusFromCode(ai.Code) == StatusSuccess
}

// Status returns "success" or "error" based on the response code.
func (ai *ActionInvocation) Status() string {
	return StatusFromCode(ai.Code)
}

// LogAttrs returns slog attributes for structured logging.
// When includeFileID is false the file ID is masked.
func (ai *ActionInvocation) LogAttrs(includeFileID bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("action", ai.Action),
		slog.Int("code", ai.Code),
		slog.Int("tokens", ai.Tokens),
		slog.Duration("duration", ai.Duration),
		slog.Bool("success", ai.Success()),
	}

	// Add optional fields only if present
	if ai.AddonID != "" {
		attrs = append(attrs, slog.String("addon_id", ai.AddonID))
	}
	if ai.FileID != "" {
		fileID := ai.FileID
		if !includeFileID {
			fileID = MaskFileID(fileID)
		}
		attrs = append(attrs, slog.String("file_id", fileID))
	}
	if ai.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ai.TraceID))
	}
	if ai.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ai.SpanID))
	}
	if !ai.Success() && ai.Message != "" {
		attrs = append(attrs, slog.String("error", ai.Message))
	}

	return attrs
}

// AuditLogger provides structured audit logging for action invocations.
// It wraps slog.Logger with convenience methods for logging addon operations.
type AuditLogger struct {
	logger         *slog.Logger
	includeFileIDs bool
	enabled        bool
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:         logger,
		includeFileIDs: config.IncludeFileIDs,
		enabled:        config.Enabled,
	}
}

// LogAction logs a completed action invocation. Successful actions are
// logged at info, failed ones at warn. A nil AuditLogger logs nothing.
func (al *AuditLogger) LogAction(ai *ActionInvocation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := ai.LogAttrs(al.includeFileIDs)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ai.Success() {
		al.logger.Info("action_executed", args...)
	} else {
		al.logger.Warn("action_failed", args...)
	}
}
