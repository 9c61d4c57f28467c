// Package auth provides bearer-token middleware for the HTTP transport.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// NewAuthMiddleware wraps handlers with bearer-token checks. An empty token
// disables authentication entirely: every request reaches the next handler.
//
// When a token is configured, requests must send:
//
//	Authorization: Bearer <token>
//
// The scheme is matched case-sensitively with a single space before the
// token. Requests with a missing header, a different scheme, an empty
// credential, or a mismatched token get a 401 and never reach the wrapped
// handler. Tokens are compared in constant time.
//
// Rejections are logged at DEBUG with the remote address. A nil logger
// falls back to slog.Default().
func NewAuthMiddleware(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			const scheme = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, scheme) {
				logger.Debug("auth rejected: missing or malformed Authorization header", "remote", r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			provided := header[len(scheme):]
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), want) != 1 {
				logger.Debug("auth rejected: invalid token", "remote", r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
