package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the driveaddon package.
const TracerName = "github.com/teemow/driveaddon"

// Span attribute keys.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrAction is the addon action name attribute.
	SpanAttrAction = "addon.action"

	// SpanAttrAddonID is the addon instance identifier.
	SpanAttrAddonID = "addon.id"

	// SpanAttrOperation is the Drive operation type attribute.
	SpanAttrOperation = "drive.operation"

	// SpanAttrFileID is the Drive file or folder identifier, masked.
	SpanAttrFileID = "drive.file_id"

	// SpanAttrResponseCode is the envelope response code.
	SpanAttrResponseCode = "addon.response_code"
)

// SpanAttributeBuilder collects optional span attributes, skipping empty values.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 4),
	}
}

// WithAddonID adds the addon instance attribute.
func (b *SpanAttributeBuilder) WithAddonID(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrAddonID, id))
	}
	return b
}

// WithFileID adds the Drive file attribute. The ID is masked.
func (b *SpanAttributeBuilder) WithFileID(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrFileID, MaskFileID(id)))
	}
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts an internal span on the global tracer provider.
// The caller ends the span.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, name, trace.SpanKindInternal, attrs)
}

// StartToolSpan starts a server span for an MCP tool invocation, named "tool.<name>".
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer,
		prepend(attribute.String(SpanAttrTool, toolName), attrs))
}

// StartActionSpan starts a span covering one addon action, named "action.<name>".
func StartActionSpan(ctx context.Context, action string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "action."+action, trace.SpanKindInternal,
		prepend(attribute.String(SpanAttrAction, action), attrs))
}

// StartDriveSpan starts a client span for a single Drive API call, named "drive.<operation>".
func StartDriveSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "drive."+operation, trace.SpanKindClient,
		prepend(attribute.String(SpanAttrOperation, operation), attrs))
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...), trace.WithSpanKind(kind))
}

func prepend(first attribute.KeyValue, rest []attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{first}, rest...)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// SetSpanResponse records the envelope code and marks the span accordingly.
func SetSpanResponse(span trace.Span, code int, message string) {
	span.SetAttributes(attribute.Int(SpanAttrResponseCode, code))
	if StatusFromCode(code) == StatusSuccess {
		SetSpanSuccess(span)
		return
	}
	span.SetStatus(codes.Error, message)
}

// AddSpanEvent adds an event to the span carried by ctx, if any.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the span ID of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
