package requestlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/menuhub/internal/app/system/requestlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_GeneratesAndPropagatesID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var seen string
	h := requestlog.Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestlog.RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/orders", nil))

	if seen == "" {
		t.Fatal("handler saw no request id")
	}
	if got := rec.Header().Get(requestlog.Header); got != seen {
		t.Errorf("response header %q != context id %q", got, seen)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusCreated) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["request_id"] != seen {
		t.Errorf("request_id field = %v", fields["request_id"])
	}
}

func TestMiddleware_ReusesIncomingID(t *testing.T) {
	var seen string
	h := requestlog.Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestlog.RequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/menu", nil)
	req.Header.Set(requestlog.Header, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc-123" {
		t.Errorf("request id = %q, want abc-123", seen)
	}
}

func TestMiddleware_ServerErrorLogsWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := requestlog.Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Error("expected a warn entry for a 500 response")
	}
}
