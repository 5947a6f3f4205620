package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a recording tracer provider for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func onlySpan(t *testing.T, recorder *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	return spans[0]
}

func attrValue(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithAddonID("drive-1").
		WithFileID("1AbCdEfGh").
		Build()

	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != SpanAttrAddonID || attrs[0].Value.AsString() != "drive-1" {
		t.Errorf("unexpected addon attribute %v", attrs[0])
	}
	if attrs[1].Key != SpanAttrFileID || attrs[1].Value.AsString() != "1AbC***" {
		t.Errorf("expected masked file id, got %v", attrs[1])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithAddonID("").WithFileID("").Build()
	if len(attrs) != 0 {
		t.Errorf("expected no attributes, got %d", len(attrs))
	}
}

func TestStartSpans(t *testing.T) {
	tests := []struct {
		name     string
		start    func(ctx context.Context) (context.Context, trace.Span)
		wantName string
		wantKind trace.SpanKind
		wantAttr string
		wantVal  string
	}{
		{
			name: "tool",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartToolSpan(ctx, "drive_list_documents")
			},
			wantName: "tool.drive_list_documents",
			wantKind: trace.SpanKindServer,
			wantAttr: SpanAttrTool,
			wantVal:  "drive_list_documents",
		},
		{
			name: "action",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartActionSpan(ctx, "download_document")
			},
			wantName: "action.download_document",
			wantKind: trace.SpanKindInternal,
			wantAttr: SpanAttrAction,
			wantVal:  "download_document",
		},
		{
			name:     "drive",
			start:    func(ctx context.Context) (context.Context, trace.Span) { return StartDriveSpan(ctx, OperationExport) },
			wantName: "drive.export",
			wantKind: trace.SpanKindClient,
			wantAttr: SpanAttrOperation,
			wantVal:  OperationExport,
		},
		{
			name: "plain",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartSpan(ctx, "selftest", attribute.String("module", "actions"))
			},
			wantName: "selftest",
			wantKind: trace.SpanKindInternal,
			wantAttr: "module",
			wantVal:  "actions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := recordSpans(t)

			ctx, span := tt.start(context.Background())
			if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
				t.Error("expected trace and span IDs in the returned context")
			}
			span.End()

			got := onlySpan(t, recorder)
			if got.Name() != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name(), tt.wantName)
			}
			if got.SpanKind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.SpanKind(), tt.wantKind)
			}
			if v, ok := attrValue(got, tt.wantAttr); !ok || v.AsString() != tt.wantVal {
				t.Errorf("attribute %s = %v, want %q", tt.wantAttr, v.AsInterface(), tt.wantVal)
			}
		})
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "test-span")
	SetSpanError(span, nil) // nil error leaves the span untouched
	SetSpanError(span, errors.New("test error"))
	span.End()

	got := onlySpan(t, recorder)
	if got.Status().Code != codes.Error || got.Status().Description != "test error" {
		t.Errorf("unexpected status %+v", got.Status())
	}
	if len(got.Events()) != 1 {
		t.Errorf("expected the error to be recorded as an event, got %d events", len(got.Events()))
	}
}

func TestSetSpanResponse(t *testing.T) {
	tests := []struct {
		code     int
		wantCode codes.Code
	}{
		{code: 200, wantCode: codes.Ok},
		{code: 413, wantCode: codes.Error},
		{code: 503, wantCode: codes.Error},
	}

	for _, tt := range tests {
		recorder := recordSpans(t)

		_, span := StartSpan(context.Background(), "test-span")
		SetSpanResponse(span, tt.code, "message")
		span.End()

		got := onlySpan(t, recorder)
		if got.Status().Code != tt.wantCode {
			t.Errorf("code %d: status = %v, want %v", tt.code, got.Status().Code, tt.wantCode)
		}
		if v, ok := attrValue(got, SpanAttrResponseCode); !ok || v.AsInt64() != int64(tt.code) {
			t.Errorf("code %d: response code attribute = %v", tt.code, v.AsInterface())
		}
	}
}

func TestAddSpanEvent(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "test-span")
	AddSpanEvent(ctx, "download.mode", attribute.String("mode", "export"))
	span.End()

	events := onlySpan(t, recorder).Events()
	if len(events) != 1 || events[0].Name != "download.mode" {
		t.Errorf("unexpected events %+v", events)
	}

	// No span in context: must not panic
	AddSpanEvent(context.Background(), "ignored")
}

func TestGetIDs_NoSpan(t *testing.T) {
	ctx := context.Background()
	if id := GetTraceID(ctx); id != "" {
		t.Errorf("expected empty trace ID, got %q", id)
	}
	if id := GetSpanID(ctx); id != "" {
		t.Errorf("expected empty span ID, got %q", id)
	}
}
