package httpx

import (
	"context"

	"github.com/streamvault/streamvault/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyRoles    ctxKey = "roles"
	CtxKeyClaims   ctxKey = "claims"
)

// WithPrincipal attaches the verified token claims to the context, along
// with the username and roles under their own keys for cheap lookups.
func WithPrincipal(ctx context.Context, cl *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyClaims, cl)
	ctx = context.WithValue(ctx, CtxKeyUsername, cl.Subject)
	return context.WithValue(ctx, CtxKeyRoles, cl.Roles)
}

// ClaimsFromCtx returns the verified claims, or nil when the request did
// not pass authentication.
func ClaimsFromCtx(ctx context.Context) *jwtx.Claims {
	if cl, ok := ctx.Value(CtxKeyClaims).(*jwtx.Claims); ok {
		return cl
	}
	return nil
}

// UsernameFromCtx returns the authenticated username, or "" when absent.
func UsernameFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}

func rolesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyRoles).([]string); ok {
		return v
	}
	return nil
}
