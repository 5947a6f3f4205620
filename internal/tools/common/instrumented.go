package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/driveaddon/internal/instrumentation"
	"github.com/teemow/driveaddon/internal/logging"
	"github.com/teemow/driveaddon/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a tool span and the
// mcp_tool_* metrics. Action level auditing happens inside the addon.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
		default:
			instrumentation.SetSpanSuccess(span)
		}

		// Metrics may be nil if not configured; the recorder tolerates that.
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		logging.WithTool(sc.Addon().Logger(), toolName).Debug("Tool invocation completed",
			logging.Status(status), slog.Duration("duration", duration))

		return result, err
	}
}
