package domain

import "time"

// RefreshToken is a stored opaque refresh-token row. At most one row
// exists per user; issuing a new one replaces the old.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token's expiry instant has passed.
func (rt *RefreshToken) Expired(now time.Time) bool {
	return rt.ExpiresAt.Before(now)
}

// TokenPair is the result of a successful login or refresh: a signed
// access token, the opaque refresh token that replaces any prior one,
// and the access token's expiry.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	TokenType    string
}
