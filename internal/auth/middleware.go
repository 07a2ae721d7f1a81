package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/health-diary/internal/config"
)

// Middleware resolves bearer tokens into the request subject.
type Middleware struct {
	mode     string
	required bool
	service  *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{mode: cfg.AuthMode, required: cfg.AuthRequired, service: service}
}

// Authenticate wraps next. With AUTH_MODE=none it is a pass-through. A
// malformed or expired token is always a 401; a missing one only when
// AUTH_REQUIRED is set. /healthz and the dev sign-in stay open.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	if m.mode == "none" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/v1/auth/dev" {
			next.ServeHTTP(w, r)
			return
		}

		token, present := bearerToken(r.Header.Get("Authorization"))
		if !present {
			if m.required {
				reject(w, r, "Unauthorized", "missing token")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		sub, err := m.service.VerifyJWT(token)
		if err != nil {
			reject(w, r, "Invalid or expired token", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
	})
}

// bearerToken reports whether an Authorization header was sent at all; a
// header with another scheme yields an empty token so it fails verification.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	token, _ := strings.CutPrefix(header, "Bearer ")
	if token == header {
		return "", true
	}
	return strings.TrimSpace(token), true
}

func reject(w http.ResponseWriter, r *http.Request, message, reason string) {
	log.Printf("WARN auth: rejected %s %s: %s", r.Method, r.URL.Path, reason)
	writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", message)
}
