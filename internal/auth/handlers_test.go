package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/config"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func testConfig(mode string, required bool) *config.Config {
	return &config.Config{
		AuthMode:      mode,
		AuthRequired:  required,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "health-diary-test",
		JWTTTLMinutes: 60,
	}
}

func setupTestService(mode string, required bool) *Service {
	return NewService(testConfig(mode, required)).WithClock(func() time.Time { return testNow })
}

func TestHandleDevAuth(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := setupTestService("dev", false)
		handler := NewHandlers(svc)

		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		w := httptest.NewRecorder()
		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.AccessToken == "" || resp.TokenType != "Bearer" || resp.ExpiresIn != 3600 || resp.Subject != DevSubject {
			t.Errorf("unexpected response %+v", resp)
		}
		sub, err := svc.VerifyJWT(resp.AccessToken)
		if err != nil || sub != DevSubject {
			t.Errorf("expected valid token for %s, got %q err=%v", DevSubject, sub, err)
		}
	})

	t.Run("CustomSubject", func(t *testing.T) {
		handler := NewHandlers(setupTestService("dev", false))
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader([]byte(`{"subject":"sam"}`)))
		w := httptest.NewRecorder()
		handler.HandleDevAuth(w, req)

		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Subject != "sam" {
			t.Errorf("expected subject sam, got %q", resp.Subject)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		handler := NewHandlers(setupTestService("none", false))
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		w := httptest.NewRecorder()
		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		handler := NewHandlers(setupTestService("dev", false))
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader([]byte(`{`)))
		w := httptest.NewRecorder()
		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestVerifyJWT(t *testing.T) {
	svc := setupTestService("dev", false)

	token, err := svc.IssueToken("sam", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sub, err := svc.VerifyJWT(token); err != nil || sub != "sam" {
		t.Errorf("expected sam, got %q err=%v", sub, err)
	}

	expired, _ := svc.IssueToken("sam", -time.Minute)
	if _, err := svc.VerifyJWT(expired); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := NewService(&config.Config{JWTSecret: "other-secret", JWTIssuer: "health-diary-test"}).
		WithClock(func() time.Time { return testNow })
	forged, _ := other.IssueToken("sam", time.Hour)
	if _, err := svc.VerifyJWT(forged); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	if _, err := svc.VerifyJWT("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestAuthenticateRequired(t *testing.T) {
	svc := setupTestService("dev", true)
	mw := NewMiddleware(svc.config, svc)

	var seen string
	protected := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"NoToken", "/v1/foods", "", http.StatusUnauthorized},
		{"WrongScheme", "/v1/foods", "Basic abc", http.StatusUnauthorized},
		{"EmptyBearer", "/v1/diary", "Bearer ", http.StatusUnauthorized},
		{"Public", "/healthz", "", http.StatusOK},
		{"DevLogin", "/v1/auth/dev", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	token, _ := svc.IssueToken("sam", time.Hour)
	req := httptest.NewRequest("GET", "/v1/foods", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusOK || seen != "sam" {
		t.Errorf("expected authenticated request for sam, got %d %q", w.Code, seen)
	}
}

func TestAuthenticateOptionalAndMe(t *testing.T) {
	svc := setupTestService("dev", false)
	mw := NewMiddleware(svc.config, svc)
	handler := mw.Authenticate(http.HandlerFunc(NewHandlers(svc).HandleMe))

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var me MeResponse
	json.NewDecoder(w.Body).Decode(&me)
	if me.Authenticated || me.AuthMode != "dev" {
		t.Errorf("expected anonymous caller, got %+v", me)
	}

	token, _ := svc.IssueToken("sam", time.Hour)
	req = httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	json.NewDecoder(w.Body).Decode(&me)
	if !me.Authenticated || me.Subject != "sam" {
		t.Errorf("expected sam, got %+v", me)
	}

	req = httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for bad token, got %d", w.Code)
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	svc := setupTestService("none", true)
	mw := NewMiddleware(svc.config, svc)
	handler := mw.Authenticate(http.HandlerFunc(NewHandlers(svc).HandleMe))

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected tokens to be ignored with auth off, got %d", w.Code)
	}
	var me MeResponse
	json.NewDecoder(w.Body).Decode(&me)
	if me.Authenticated {
		t.Errorf("expected anonymous caller, got %+v", me)
	}
}

func TestSubjectContext(t *testing.T) {
	if _, ok := Subject(context.Background()); ok {
		t.Error("expected no subject on a bare context")
	}
	if _, ok := Subject(WithSubject(context.Background(), "")); ok {
		t.Error("expected empty subject to count as absent")
	}
	if sub, ok := Subject(WithSubject(context.Background(), "cli")); !ok || sub != "cli" {
		t.Errorf("expected cli, got %q %v", sub, ok)
	}
}
