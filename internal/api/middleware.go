package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"strings"

	"github.com/lampstandapp/lampstand-server/internal/auth"
)

type contextKey string

// sessionContextKey carries the authenticated session claims.
const sessionContextKey contextKey = "session"

// publicPaths are reachable without a session: health for probes, and
// pairing completion for devices that do not have a token yet. Starting
// a pairing round stays behind auth so only the desktop shell (or an
// already paired device) can mint a PIN.
var publicPaths = []string{
	"/health",
	"/api/v1/pairing/complete",
	"/openapi",
	"/docs",
}

// authMiddleware authenticates every API request. Loopback callers
// (the desktop shell) pass without a token; LAN companions need the
// bearer token they got from pairing.
func authMiddleware(pairer *auth.Pairer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pairer.Authenticate(r)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) *auth.SessionClaims {
	claims, _ := ctx.Value(sessionContextKey).(*auth.SessionClaims)
	return claims
}

// remoteAddrContextKey carries the client address for handlers that
// need it, such as pairing rate limits.
const remoteAddrContextKey contextKey = "remote_addr"

// remoteAddrMiddleware stows the (RealIP-resolved) client address in
// the request context.
func remoteAddrMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), remoteAddrContextKey, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientKey resolves the best available client identity for keyed rate
// limiting.
func clientKey(ctx context.Context, fallback string) string {
	if addr, ok := ctx.Value(remoteAddrContextKey).(string); ok && addr != "" {
		return addr
	}
	if fallback != "" {
		return fallback
	}
	return "unknown"
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body, _ := json.Marshal(&APIError{
		Code:    "unauthorized",
		Message: err.Error(),
	})
	_, _ = w.Write(body)
}
