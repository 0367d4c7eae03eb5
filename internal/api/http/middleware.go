package http

import (
	"net/http"
	"strings"
	"time"

	"collab-deck-backend/internal/config"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/security"
	"collab-deck-backend/internal/service"

	"github.com/gorilla/mux"
)

// AuthCookieName carries the access token for browser clients.
const AuthCookieName = "authToken"

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates requests to routes that require an access token and
// puts the caller on the request context. Public routes pass through, with
// the caller attached when a valid token happens to be present.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(r.Method, routeTemplate(r))

		token := extractToken(r)
		if token == "" {
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, &service.Error{Kind: service.ErrUnauthorized, Message: "authorization token is not provided"})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, &service.Error{Kind: service.ErrUnauthorized, Message: "invalid token: " + err.Error()})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
	})
}

// extractToken prefers the Authorization header and falls back to the auth
// cookie.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token := h
		if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
			token = token[7:]
		}
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return tpl
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with its final status.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.HTTPRequest(r.Context(), r.Method, routeTemplate(r), rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// RecoveryMiddleware turns a handler panic into a 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panicked", "path", r.URL.Path, "panic", p)
				writeError(w, service.ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
