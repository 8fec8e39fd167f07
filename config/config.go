// Package config loads all process configuration from the environment in
// one place. Nothing else in the tree reads environment variables; every
// component receives what it needs through this struct.
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
	Port           string
	Env            string
	AllowedOrigins []string

	MongoURI     string
	DatabaseName string

	JWTSecret     string
	JWTExpires    time.Duration
	CookieExpires time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	AdminEmail    string
	AdminPassword string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the environment, falling back to a .env file when present,
// and fails when any required variable is missing or malformed. A partial
// configuration must never reach the rest of the process.
func Load() (*Config, error) {
	// Optional in deployed environments where real env vars are set.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getDefault("PORT", "8080"),
		Env:          getDefault("APP_ENV", "development"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{"MONGODB_URI", cfg.MongoURI},
		{"DATABASE_NAME", cfg.DatabaseName},
		{"JWT_SECRET", cfg.JWTSecret},
		{"JWT_EXPIRES_MINUTES", os.Getenv("JWT_EXPIRES_MINUTES")},
		{"JWT_COOKIE_EXPIRES_DAYS", os.Getenv("JWT_COOKIE_EXPIRES_DAYS")},
		{"SMTP_HOST", cfg.SMTPHost},
		{"SMTP_PORT", os.Getenv("SMTP_PORT")},
		{"SMTP_USERNAME", cfg.SMTPUsername},
		{"SMTP_PASSWORD", cfg.SMTPPassword},
		{"EMAIL_FROM", cfg.EmailFrom},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	jwtMinutes, err := requirePositiveInt("JWT_EXPIRES_MINUTES")
	if err != nil {
		return nil, err
	}
	cfg.JWTExpires = time.Duration(jwtMinutes) * time.Minute

	cookieDays, err := requirePositiveInt("JWT_COOKIE_EXPIRES_DAYS")
	if err != nil {
		return nil, err
	}
	cfg.CookieExpires = time.Duration(cookieDays) * 24 * time.Hour

	cfg.SMTPPort, err = requirePositiveInt("SMTP_PORT")
	if err != nil {
		return nil, err
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	cfg.RateLimitMax = intDefault("RATE_LIMIT_MAX", 100)
	windowMinutes := intDefault("RATE_LIMIT_WINDOW_MINUTES", 60)
	cfg.RateLimitWindow = time.Duration(windowMinutes) * time.Minute

	return cfg, nil
}

func getDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func requirePositiveInt(name string) (int, error) {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, os.Getenv(name))
	}
	return n, nil
}

func intDefault(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
