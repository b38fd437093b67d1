package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// Request Logging Middleware Tests
// =============================================================================

func TestRequestLoggingMiddleware_LogsBasicInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := NewRequestLoggingMiddleware(logger)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := mw.Handler(handler)

	req := httptest.NewRequest("GET", "/api/stocks", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	logOutput := buf.String()

	if !strings.Contains(logOutput, "GET") {
		t.Errorf("log should contain method, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "/api/stocks") {
		t.Errorf("log should contain path, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "200") {
		t.Errorf("log should contain status code, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "duration") {
		t.Errorf("log should contain duration, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := NewRequestLoggingMiddleware(logger)
	wrapped := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/health", "/metrics"} {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if buf.Len() != 0 {
		t.Errorf("health and metrics requests should not be logged, got: %s", buf.String())
	}
}

func TestRequestLoggingMiddleware_RedactsSensitiveParams(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := NewRequestLoggingMiddleware(logger)
	wrapped := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/api/billing/checkout?session_id=cs_secret123&plan=monthly", nil)
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()

	if strings.Contains(logOutput, "cs_secret123") {
		t.Errorf("session id should be redacted, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "[REDACTED]") {
		t.Errorf("expected redaction marker, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "plan=monthly") {
		t.Errorf("non-sensitive params should survive, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_LogsIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	identityMW := NewIdentityMiddleware(slog.New(slog.DiscardHandler))
	loggingMW := NewRequestLoggingMiddleware(logger)

	handler := identityMW.WithIdentity(loggingMW.Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	))

	req := httptest.NewRequest("POST", "/api/recommendations", nil)
	req.Header.Set(HeaderUserID, "uid-789")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "uid-789") {
		t.Errorf("log should contain user id, got: %s", buf.String())
	}
}

func TestRequestLoggingMiddleware_WarnsOnServerError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := NewRequestLoggingMiddleware(logger)
	wrapped := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/stocks", nil))

	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("5xx responses should log at warn level, got: %s", buf.String())
	}
}
