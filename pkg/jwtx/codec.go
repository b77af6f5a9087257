package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies access tokens with a single process-wide key.
// Verification accepts only the algorithm the codec was built with, so a
// token signed under a different scheme fails as an invalid signature.
type Codec struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	ttl       time.Duration
}

// NewCodec builds a codec for the given key. issuer is stamped into every
// issued token; ttl is the access-token lifetime.
func NewCodec(key *Key, issuer string, ttl time.Duration) (*Codec, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("jwtx: token TTL must be positive, got %s", ttl)
	}

	c := &Codec{issuer: issuer, ttl: ttl}
	switch key.alg {
	case AlgHMAC:
		c.method = jwt.SigningMethodHS256
		c.signKey = key.secret
		c.verifyKey = key.secret
	case AlgRSA:
		c.method = jwt.SigningMethodRS256
		c.signKey = key.private
		c.verifyKey = key.public
	default:
		return nil, fmt.Errorf("jwtx: unknown algorithm %q", key.alg)
	}
	return c, nil
}

// TTL returns the configured access-token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs the claims and returns the compact token. The issuer, issue
// time and expiry are stamped onto cl before signing, so the caller can
// read the expiry back without re-parsing the token.
func (c *Codec) Issue(cl *Claims) (string, error) {
	now := time.Now().UTC()
	cl.Issuer = c.issuer
	cl.IssuedAt = jwt.NewNumericDate(now)
	cl.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	signed, err := jwt.NewWithClaims(c.method, cl).SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a compact token, returning its claims.
// Failures map onto the package sentinels so callers can distinguish
// malformed, expired, bad-signature and unsupported tokens. Expiry is
// checked against the current time with no grace window.
func (c *Codec) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{c.method.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return c.verifyKey, nil
	})
	if err != nil {
		return nil, mapVerifyError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

func mapVerifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupported
	default:
		return fmt.Errorf("jwtx: verify token: %w", err)
	}
}
