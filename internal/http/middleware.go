package http

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/shelf-locator/internal/auth"
	"github.com/rogerio-castellano/shelf-locator/internal/http/ban"
	rl "github.com/rogerio-castellano/shelf-locator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/shelf-locator/internal/metrics"
	"github.com/sirupsen/logrus"
)

type contextKey string


func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"message":"` + msg + `"}`))
}

// AuthMiddleware requires a valid Bearer token: missing 401, expired 401,
// anything else 403.
func AuthMiddleware(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			claims, err := a.ParseToken(strings.TrimSpace(tokenStr))
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				writeMessage(w, http.StatusUnauthorized, "Authentication required")
				return
			case errors.Is(err, auth.ErrTokenExpired):
				writeMessage(w, http.StatusUnauthorized, "Token expired")
				return
			case err != nil:
				writeMessage(w, http.StatusForbidden, "Invalid token")
				return
			}

			if sub, ok := claims["sub"].(string); ok {
				setSubject(r.Context(), sub)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientID identifies a caller by IP for rate limiting and bans.
func ClientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects over-limit requests with 429 and records a
// strike for the client when a banner is configured.
func RateLimitMiddleware(l *rl.Limiter, b *ban.Banner, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ClientID(r)
			if !l.Allow(id) {
				if m != nil {
					m.RateLimited.Inc()
				}
				if b != nil {
					b.Strike(r.Context(), id, r.URL.Path)
				}
				writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one entry per request.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, info := withRequestInfo(r)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
				"remote":   ClientID(r),
			}
			if info.subject != "" {
				fields["subject"] = info.subject
			}
			log.WithFields(fields).Info("request")
		})
	}
}
