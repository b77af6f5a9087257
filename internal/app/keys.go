package app

import (
	"fmt"
	"strings"

	"github.com/streamvault/streamvault/pkg/jwtx"
)

// LoadSigningKey resolves the token signing material from configuration.
// HMAC needs JWT_SECRET; RSA needs both PEM files. Any failure here is
// fatal at startup.
func LoadSigningKey(cfg Config) (*jwtx.Key, error) {
	switch strings.ToUpper(cfg.JWTAlgorithm) {
	case "HMAC":
		return jwtx.NewHMACKey(cfg.JWTSecret)
	case "RSA":
		if cfg.JWTPrivateKeyFile == "" || cfg.JWTPublicKeyFile == "" {
			return nil, fmt.Errorf("RSA signing requires JWT_PRIVATE_KEY_FILE and JWT_PUBLIC_KEY_FILE")
		}
		return jwtx.LoadRSAKeys(cfg.JWTPrivateKeyFile, cfg.JWTPublicKeyFile)
	default:
		return nil, fmt.Errorf("unknown JWT_ALGORITHM %q (want HMAC or RSA)", cfg.JWTAlgorithm)
	}
}
