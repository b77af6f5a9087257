// Package jwtx issues and verifies the service's signed access tokens.
// It supports two interchangeable signing schemes, HS256 over a shared
// secret and RS256 over an RSA keypair, selected once at startup.
package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims. The subject is the username; the
// custom fields carry a denormalized snapshot of the user record, so
// staleness between refresh cycles is expected.
type Claims struct {
	jwt.RegisteredClaims

	UserID    int64    `json:"userId,omitempty"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	UserType  string   `json:"userType,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Expiry returns the expiry instant, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// HasRole reports whether the claims carry the given role name.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}
