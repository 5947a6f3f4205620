package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrCodeClass = "code_class"
	attrOperation = "operation"
	attrAction    = "action"
	attrTool      = "tool"
	attrAddonID   = "addon_id"
)

// Metrics provides methods for recording observability metrics.
// A nil *Metrics or a zero Metrics records nothing.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Drive API metrics
	driveOperationsTotal   metric.Int64Counter
	driveOperationDuration metric.Float64Histogram

	// Addon action metrics
	actionInvocationsTotal metric.Int64Counter
	actionDuration         metric.Float64Histogram
	actionTokensTotal      metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Drive API Metrics
	m.driveOperationsTotal, err = meter.Int64Counter(
		"drive_api_operations_total",
		metric.WithDescription("Total number of Google Drive API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operations_total counter: %w", err)
	}

	m.driveOperationDuration, err = meter.Float64Histogram(
		"drive_api_operation_duration_seconds",
		metric.WithDescription("Google Drive API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operation_duration_seconds histogram: %w", err)
	}

	// Action Metrics
	m.actionInvocationsTotal, err = meter.Int64Counter(
		"addon_action_invocations_total",
		metric.WithDescription("Total number of addon action invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_invocations_total counter: %w", err)
	}

	m.actionDuration, err = meter.Float64Histogram(
		"addon_action_duration_seconds",
		metric.WithDescription("Addon action duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_duration_seconds histogram: %w", err)
	}

	m.actionTokensTotal, err = meter.Int64Counter(
		"addon_action_tokens_total",
		metric.WithDescription("Total tokens charged by addon actions"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create addon_action_tokens_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDriveOperation records a single Drive API call.
//
// Parameters:
//   - operation: Operation type (list, trash, metadata, export, download)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the call
func (m *Metrics) RecordDriveOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.driveOperationsTotal == nil || m.driveOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.driveOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.driveOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAction records a completed addon action with its response code and
// charged tokens. The addon ID is only attached when detailed labels are on.
func (m *Metrics) RecordAction(ctx context.Context, action, addonID string, code, tokens int, duration time.Duration) {
	if m == nil || m.actionInvocationsTotal == nil || m.actionDuration == nil || m.actionTokensTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, action),
		attribute.String(attrStatus, StatusFromCode(code)),
		attribute.String(attrCodeClass, CodeClass(code)),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && addonID != "" {
		attrs = append(attrs, attribute.String(attrAddonID, addonID))
	}

	m.actionInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.actionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if tokens > 0 {
		m.actionTokensTotal.Add(ctx, int64(tokens), metric.WithAttributes(attribute.String(attrAction, action)))
	}
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "drive_list_documents")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
