package httpx

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Fixed rejection message shared by every CORS failure body.
const corsRejectionMessage = "CORS policy: Origin not allowed by configuration."

// CORSConfig holds the cross-origin policy. Zero values mean deny
// everything except same-origin requests without an Origin header.
type CORSConfig struct {
	// AllowedOrigins is the exact-match allow list. A single "*" entry
	// allows any origin (incompatible with AllowCredentials).
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int

	// RequireOrigin rejects requests that carry no Origin header at all.
	// Off by default so same-origin and non-browser clients pass through.
	RequireOrigin bool
}

// CORSMiddleware enforces the origin policy before anything else in the
// pipeline runs. Rejections are final: a 403 envelope is written and the
// request never reaches authentication.
func CORSMiddleware(cfg CORSConfig) Middleware {
	allowAll := slices.Contains(cfg.AllowedOrigins, "*")
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				if cfg.RequireOrigin {
					Fail(w, r, http.StatusForbidden, "Missing Origin", corsRejectionMessage)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !validOriginSyntax(origin) {
				Fail(w, r, http.StatusForbidden, "Invalid Origin", corsRejectionMessage)
				return
			}

			if !allowAll && !slices.Contains(cfg.AllowedOrigins, origin) {
				Fail(w, r, http.StatusForbidden, "CORS Rejected", corsRejectionMessage)
				return
			}

			w.Header().Add("Vary", "Origin")
			if allowAll && !cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Preflight terminates here.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if methods != "" {
					w.Header().Set("Access-Control-Allow-Methods", methods)
				}
				if headers != "" {
					w.Header().Set("Access-Control-Allow-Headers", headers)
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validOriginSyntax checks that the Origin value is an absolute http or
// https URL with a host and no path junk.
func validOriginSyntax(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && u.Path == "" && u.RawQuery == "" && u.Fragment == ""
}
