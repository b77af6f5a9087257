package httpx

import "net/http"

// RequireAnyRole admits the request when the authenticated principal
// holds at least one of the listed roles, otherwise a 403 envelope.
// Must run after authentication so the roles are in the context.
func RequireAnyRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, role := range required {
		want[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range rolesFromCtx(r.Context()) {
				if _, ok := want[role]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			Fail(w, r, http.StatusForbidden, "Access Denied",
				"You do not have the required role to access this resource")
		})
	}
}
