package httpx

import (
	"mime"
	"net/http"
)

// RequireJSONBody rejects body-carrying requests whose media type is not
// application/json with a 415 envelope. It runs before authentication, so
// a bad content type never gets as far as token verification. Methods
// without a request body pass through untouched.
func RequireJSONBody() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				Fail(w, r, http.StatusUnsupportedMediaType,
					"Unsupported Media Type", "Content-Type must be application/json")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
