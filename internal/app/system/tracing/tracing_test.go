package tracing_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/tracing"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return rec
}

func TestMiddleware_TracesAPIRequests(t *testing.T) {
	rec := withRecorder(t)

	h := tracing.Middleware("menuhub")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/menu", nil))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Name(); got != "HTTP GET /api/menu" {
		t.Errorf("span name = %q", got)
	}
}

func TestMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	rec := withRecorder(t)

	h := tracing.Middleware("menuhub")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for _, p := range []string{"/health", "/metrics"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}

	if n := len(rec.Ended()); n != 0 {
		t.Errorf("expected no spans for probe paths, got %d", n)
	}
}

func TestStart_ChildSpan(t *testing.T) {
	rec := withRecorder(t)

	ctx, parent := tracing.Start(context.Background(), "parent")
	_, child := tracing.Start(ctx, "child")
	child.End()
	parent.End()

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("child span is not parented to the outer span")
	}
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := tracing.Init("menuhub", "test", false, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInit_EnabledWritesSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := tracing.Init("menuhub", "test", true, &buf)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	_, span := tracing.Start(context.Background(), "report.stats")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("report.stats")) {
		t.Errorf("exported output missing span name: %s", buf.String())
	}
}
