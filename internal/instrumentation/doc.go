// Package instrumentation provides OpenTelemetry instrumentation for the
// Google Drive addon.
//
// This package enables observability through:
//   - OpenTelemetry metrics for addon actions, Drive API calls, MCP tools and HTTP requests
//   - Distributed tracing for actions and the Drive calls they make
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//   - Audit logging of every action outcome
//
// # Metrics
//
// Action Metrics:
//   - addon_action_invocations_total: Counter of actions by action, status and code class
//   - addon_action_duration_seconds: Histogram of action durations
//   - addon_action_tokens_total: Counter of tokens charged by action
//
// Drive API Metrics:
//   - drive_api_operations_total: Counter of Drive calls by operation and status
//   - drive_api_operation_duration_seconds: Histogram of Drive call durations
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for:
//   - Addon actions (action.<name>)
//   - Drive API calls (drive.<operation>)
//   - MCP tool invocations (tool.<name>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: driveaddon)
//   - AUDIT_LOGGING_ENABLED: Enable/disable action audit logs (default: true)
//   - AUDIT_LOGGING_INCLUDE_FILE_IDS: Log full Drive file IDs (default: false)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordDriveOperation(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
//	recorder.RecordAction(ctx, "list_documents", cfg.ID(), resp.Code, resp.Tokens.StepAmount, time.Since(start))
package instrumentation
