package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Auth    AuthConfig
	Gateway GatewayConfig

	// PendingExpiry is how long an unconfirmed booking may stay pending before
	// the expiry sweep (or a derived read) marks it expired.
	PendingExpiry time.Duration

	// AllowedOrigins is a comma-separated allowlist of origins allowed to call
	// the API from the browser frontends (site, guest dashboard, admin console).
	AllowedOrigins []string

	// LogPath is the directory for rotated log files; empty means stdout only.
	LogPath string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret signs session tokens (HS256).
	JWTSecret string
	// Issuer is environment-dependent so tokens minted on staging never
	// validate against prod.
	Issuer   string
	Audience string
}

type GatewayConfig struct {
	// KeyID is the public key id handed to the checkout widget.
	KeyID string
	// KeySecret is the shared secret used to verify payment callback signatures.
	KeySecret string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "staybook"),
			User:     env("DB_USER", "staybook"),
			Password: env("DB_PASSWORD", "staybook"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Issuer:    env("JWT_ISSUER", "staybook-dev"),
			Audience:  env("JWT_AUDIENCE", "staybook-app"),
		},
		Gateway: GatewayConfig{
			KeyID:     os.Getenv("GATEWAY_KEY_ID"),
			KeySecret: os.Getenv("GATEWAY_KEY_SECRET"),
		},
		PendingExpiry:  envHours("PENDING_EXPIRY_HOURS", 48),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		LogPath:        os.Getenv("LOG_PATH"),
	}
}

// Validate fails fast on configuration that must be present before serving.
// Only startup may abort on this; per-request code never re-checks secrets.
func (c Config) Validate() error {
	if c.AppEnv == "prod" {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		if c.Gateway.KeySecret == "" {
			return fmt.Errorf("GATEWAY_KEY_SECRET is required")
		}
	}
	return nil
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envHours(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Hour
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(fallback) * time.Hour
	}
	return time.Duration(n) * time.Hour
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
