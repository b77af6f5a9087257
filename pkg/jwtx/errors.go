package jwtx

import "errors"

var (
	// ErrMalformed is returned when a token is not a structurally valid JWT.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrExpired is returned when a token's expiry instant has passed.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrInvalidSignature is returned when the signature does not verify
	// against the configured key, including algorithm-mismatch attempts.
	ErrInvalidSignature = errors.New("jwtx: invalid token signature")

	// ErrUnsupported is returned when the token cannot be verified at all,
	// for example an unknown signing algorithm.
	ErrUnsupported = errors.New("jwtx: unsupported token")

	// ErrSecretMissing is returned when HMAC signing is selected but no
	// secret is configured. Startup must fail on it.
	ErrSecretMissing = errors.New("jwtx: HMAC secret is empty")

	// ErrKeyLoad wraps any failure to read or parse RSA key material.
	// Startup must fail on it.
	ErrKeyLoad = errors.New("jwtx: failed to load key material")
)
