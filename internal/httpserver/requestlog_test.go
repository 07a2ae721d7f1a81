package httpserver

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/config"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestRequestLogIncludesSubject(t *testing.T) {
	buf := captureLog(t)
	cfg := &config.Config{LogLevel: "debug"}
	h := RequestLogMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/diary", nil)
	req = req.WithContext(auth.WithSubject(req.Context(), "sam"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, "GET /v1/diary status=418 sub=sam") {
		t.Errorf("unexpected log line %q", line)
	}

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !strings.Contains(buf.String(), "sub=- ") {
		t.Errorf("expected anonymous marker, got %q", buf.String())
	}
}

func TestRequestLogDisabledBelowDebug(t *testing.T) {
	buf := captureLog(t)
	h := RequestLogMiddleware(&config.Config{LogLevel: "info"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/diary", nil))
	if buf.Len() != 0 {
		t.Errorf("expected no request log, got %q", buf.String())
	}
}
