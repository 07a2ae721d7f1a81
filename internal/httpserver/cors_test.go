package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/health-diary/internal/config"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSPreflightAllowedOrigin(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"https://diary.example.com/"}}

	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/foods", nil)
	req.Header.Set("Origin", "https://diary.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://diary.example.com" {
		t.Errorf("expected echoed origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") {
		t.Errorf("expected PUT in Allow-Methods, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("expected Max-Age=600, got %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"https://diary.example.com"}}

	called := false
	handler := CORSMiddleware(cfg, okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/diary", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Error("expected inner handler to be called for non-OPTIONS request")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/v1/diary", nil)
	req.Header.Set("Origin", "https://evil.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Methods") != "" {
		t.Errorf("expected bare 204 for disallowed preflight, got %d %v", rr.Code, rr.Header())
	}
}

func TestCORSCredentialsAndExposedHeaders(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"https://diary.example.com"},
		CORSAllowCredentials: true,
	}
	handler := CORSMiddleware(cfg, okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Origin", "https://diary.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected Allow-Credentials=true, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Errorf("expected Content-Disposition exposed, got %q", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	tests := []struct {
		name        string
		credentials bool
		want        string
	}{
		{"plain", false, "*"},
		{"credentials echo origin", true, "http://localhost:5173"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{CORSAllowedOrigins: []string{"*"}, CORSAllowCredentials: tt.credentials}
			handler := CORSMiddleware(cfg, okHandler(nil))

			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected Allow-Origin %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCORSNoOriginHeader(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}

	called := false
	handler := CORSMiddleware(cfg, okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/diary", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !called {
		t.Error("expected inner handler to be called")
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}
