package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/jwtx"
	"github.com/streamvault/streamvault/pkg/slogx"
)

// AuthnConfig configures the bearer-token authentication middleware.
type AuthnConfig struct {
	Codec *jwtx.Codec

	// Header and Prefix locate the token, e.g. "Authorization" and
	// "Bearer".
	Header string
	Prefix string

	// CookieName, when set, is the fallback token source for requests
	// without a usable header.
	CookieName string

	// ExemptPaths are path prefixes that skip authentication entirely.
	// Requests to them never have their tokens inspected, even bad ones.
	ExemptPaths []string
}

// AuthnMiddleware verifies the access token on every non-exempt request
// and attaches the principal to the context. Verification failures map
// onto distinct 401 messages so clients can tell an expired token from a
// bad one.
func AuthnMiddleware(cfg AuthnConfig) httpx.Middleware {
	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "Bearer"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range cfg.ExemptPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := extractToken(r, header, prefix, cfg.CookieName)
			if token == "" {
				httpx.Fail(w, r, http.StatusUnauthorized,
					"Unauthorized request", "JWT token is missing or invalid")
				return
			}

			claims, err := cfg.Codec.Verify(token)
			if err != nil {
				httpx.Fail(w, r, http.StatusUnauthorized,
					"Unauthorized request", verifyFailureMessage(err))
				return
			}

			ctx := httpx.WithPrincipal(r.Context(), claims)
			ctx = slogx.WithContext(ctx,
				slogx.FromContext(ctx).With("username", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken prefers the header and falls back to the cookie. A header
// present but without the expected prefix does not shadow the cookie.
func extractToken(r *http.Request, header, prefix, cookieName string) string {
	if raw := r.Header.Get(header); raw != "" {
		if after, ok := strings.CutPrefix(raw, prefix+" "); ok {
			return strings.TrimSpace(after)
		}
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func verifyFailureMessage(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return "Token has expired"
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return "Invalid token signature"
	case errors.Is(err, jwtx.ErrMalformed), errors.Is(err, jwtx.ErrUnsupported):
		return "Malformed or unsupported JWT token"
	default:
		return err.Error()
	}
}
