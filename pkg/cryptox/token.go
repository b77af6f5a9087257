package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// NewOpaqueToken returns a random UUIDv4 string suitable for use as an
// opaque refresh-token value (122 bits of entropy).
func NewOpaqueToken() string {
	return uuid.NewString()
}

// GenerateToken creates a cryptographically secure random token of the
// given byte length, base64url-encoded without padding. Used where more
// entropy than a UUID is wanted (bootstrap secrets, test fixtures).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
