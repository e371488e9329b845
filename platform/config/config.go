// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the shared rate-limit counter store.
type RedisConfig interface {
	GetRedisURL() string
}

// RateLimitConfig provides request-rate ceilings for the buyers module.
type RateLimitConfig interface {
	GetImportRateLimit() int
	GetImportRateWindow() time.Duration
	GetCreateRateLimit() int
	GetCreateRateWindow() time.Duration
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	JWTAccessSecret  string
	AccessTokenTTL   time.Duration
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	RedisURL         string
	ImportRateLimit  int
	ImportRateWindow time.Duration
	CreateRateLimit  int
	CreateRateWindow time.Duration
	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
}

// Load reads configuration from the environment, consulting a .env file when
// present. Missing required values produce an error rather than a zero value.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		CORSAllowAll:     getBool("CORS_ALLOW_ALL", false),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),
		CORSAllowCreds:   getBool("CORS_ALLOW_CREDENTIALS", true),
		RedisURL:         os.Getenv("REDIS_URL"),
		ImportRateLimit:  getInt("IMPORT_RATE_LIMIT", 3),
		ImportRateWindow: getDuration("IMPORT_RATE_WINDOW", 10*time.Minute),
		CreateRateLimit:  getInt("CREATE_RATE_LIMIT", 10),
		CreateRateWindow: getDuration("CREATE_RATE_WINDOW", time.Minute),
		EmailEnabled:     getBool("EMAIL_ENABLED", false),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Buyer Leads"),
		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is true")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string              { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string          { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration    { return c.AccessTokenTTL }
func (c *Config) GetHTTPAddr() string                 { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool               { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string            { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool             { return c.CORSAllowCreds }
func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetImportRateLimit() int             { return c.ImportRateLimit }
func (c *Config) GetImportRateWindow() time.Duration  { return c.ImportRateWindow }
func (c *Config) GetCreateRateLimit() int             { return c.CreateRateLimit }
func (c *Config) GetCreateRateWindow() time.Duration  { return c.CreateRateWindow }
func (c *Config) GetEmailEnabled() bool               { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string                 { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                    { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string             { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string             { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string            { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string         { return c.EmailFromAddress }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
