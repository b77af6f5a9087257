package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Token signing
	JWTAlgorithm      string        // Signing scheme: HMAC or RSA (default: HMAC)
	JWTSecret         string        // Required for HMAC: shared signing secret
	JWTPrivateKeyFile string        // Required for RSA: PKCS8 private key PEM
	JWTPublicKeyFile  string        // Required for RSA: X.509 public key PEM
	JWTIssuer         string        // Issuer claim for tokens (default: streamvault)
	JWTExpiration     time.Duration // Access token lifetime (default: 1h)
	RefreshExpiration time.Duration // Refresh token lifetime (default: 168h)
	JWTHeader         string        // Header carrying the token (default: Authorization)
	JWTPrefix         string        // Token type / header prefix (default: Bearer)

	// Cookie response mode
	CookieEnabled  bool          // Also set the access token as a cookie (default: false)
	CookieName     string        // Cookie name (default: access_token)
	CookiePath     string        // Cookie path (default: /)
	CookieMaxAge   time.Duration // Cookie lifetime (default: JWTExpiration)
	CookieSecure   bool          // Secure flag (default: false)
	CookieHTTPOnly bool          // HttpOnly flag (default: true)
	CookieSameSite string        // SameSite mode: lax, strict, none (default: lax)

	// Request pipeline
	AuthExemptPaths []string // Path prefixes that skip authentication

	// CORS
	CORSAllowedOrigins   []string // Exact-match origin allow list ("*" allows all)
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int  // Preflight cache lifetime in seconds (default: 600)
	CORSRequireOrigin    bool // Reject requests without an Origin header (default: false)

	DatabaseFile         string        // Path to SQLite database file (default: ./streamvault.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token cleanup interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		JWTAlgorithm:      getEnvOrDefault("JWT_ALGORITHM", "HMAC"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTPrivateKeyFile: os.Getenv("JWT_PRIVATE_KEY_FILE"),
		JWTPublicKeyFile:  os.Getenv("JWT_PUBLIC_KEY_FILE"),
		JWTIssuer:         getEnvOrDefault("JWT_ISSUER", "streamvault"),
		JWTExpiration:     getEnvDurationOrDefault("JWT_EXPIRATION", time.Hour),
		RefreshExpiration: getEnvDurationOrDefault("REFRESH_TOKEN_EXPIRATION", 7*24*time.Hour),
		JWTHeader:         getEnvOrDefault("JWT_HEADER", "Authorization"),
		JWTPrefix:         getEnvOrDefault("JWT_PREFIX", "Bearer"),

		CookieEnabled:  getEnvBoolOrDefault("JWT_COOKIE_RESPONSE_ENABLED", false),
		CookieName:     getEnvOrDefault("JWT_COOKIE_NAME", "access_token"),
		CookiePath:     getEnvOrDefault("JWT_COOKIE_PATH", "/"),
		CookieSecure:   getEnvBoolOrDefault("JWT_COOKIE_SECURE", false),
		CookieHTTPOnly: getEnvBoolOrDefault("JWT_COOKIE_HTTP_ONLY", true),
		CookieSameSite: getEnvOrDefault("JWT_COOKIE_SAME_SITE", "lax"),

		AuthExemptPaths: getEnvCSVOrDefault("AUTH_EXEMPT_PATHS",
			[]string{"/auth/", "/livez", "/readyz"}),

		CORSAllowedOrigins: getEnvCSVOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods: getEnvCSVOrDefault("CORS_ALLOWED_METHODS",
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		CORSAllowedHeaders: getEnvCSVOrDefault("CORS_ALLOWED_HEADERS",
			[]string{"Authorization", "Content-Type"}),
		CORSExposedHeaders:   getEnvCSVOrDefault("CORS_EXPOSED_HEADERS", nil),
		CORSAllowCredentials: getEnvBoolOrDefault("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           getEnvIntOrDefault("CORS_MAX_AGE", 600),
		CORSRequireOrigin:    getEnvBoolOrDefault("CORS_REQUIRE_ORIGIN", false),

		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "streamvault.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	cfg.CookieMaxAge = getEnvDurationOrDefault("JWT_COOKIE_MAX_AGE", cfg.JWTExpiration)

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func getEnvCSVOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
