package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewTracer(tp.Tracer("test")), rec
}

func TestFuncMeta(t *testing.T) {
	tests := []struct {
		name     string
		meta     FuncMeta
		wantID   string
		wantSpan string
	}{
		{"with namespace", FuncMeta{Namespace: "geo", Name: "lookup"}, "geo.lookup", "memo.compute.geo.lookup"},
		{"without namespace", FuncMeta{Name: "lookup"}, "lookup", "memo.compute.lookup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.FuncID(); got != tt.wantID {
				t.Errorf("FuncID() = %q, want %q", got, tt.wantID)
			}
			if got := tt.meta.SpanName(); got != tt.wantSpan {
				t.Errorf("SpanName() = %q, want %q", got, tt.wantSpan)
			}
		})
	}
}

// TestTracer_Success verifies a successful computation ends with status Ok.
func TestTracer_Success(t *testing.T) {
	tracer, rec := newRecordingTracer()
	meta := FuncMeta{Namespace: "geo", Name: "lookup"}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "memo.compute.geo.lookup" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
	if v, ok := spanAttr(s, "memo.error"); !ok || v.AsBool() {
		t.Errorf("memo.error = %v, want false", v.AsBool())
	}
	if v, _ := spanAttr(s, "func.namespace"); v.AsString() != "geo" {
		t.Errorf("func.namespace = %q, want geo", v.AsString())
	}
}

// TestTracer_Error verifies a failed computation records the error.
func TestTracer_Error(t *testing.T) {
	tracer, rec := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), FuncMeta{Name: "fail"})
	tracer.EndSpan(span, errors.New("boom"))

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error || s.Status().Description != "boom" {
		t.Errorf("status = %+v, want Error/boom", s.Status())
	}
	if v, _ := spanAttr(s, "memo.error"); !v.AsBool() {
		t.Error("memo.error = false, want true")
	}
	if len(s.Events()) == 0 {
		t.Error("expected recorded error event")
	}
}

// TestNopTracer verifies the no-op tracer produces non-recording spans.
func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	_, span := tracer.StartSpan(context.Background(), FuncMeta{Name: "x"})
	if span.IsRecording() {
		t.Error("expected non-recording span")
	}
	tracer.EndSpan(span, errors.New("ignored"))
}

// spanAttr returns the last value set for key.
func spanAttr(s sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	var (
		val   attribute.Value
		found bool
	)
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			val, found = kv.Value, true
		}
	}
	return val, found
}
