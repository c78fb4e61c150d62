package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	jwtsvc "kindremind/internal/pkg/jwt"
)

const (
	defaultHTTPAddr         = ":3002"
	defaultDatabaseURL      = "file:kindremind.db?cache=shared"
	defaultJWTAccessTTL     = "120s"
	defaultJWTRefreshTTL    = "24h"
	defaultJWTEmailTTL      = "1h"
	defaultCookiePath       = "/"
	defaultFrontendURL      = "http://localhost:5173"
	defaultCORSOrigins      = "http://localhost:5173"
	defaultSMTPPort         = "587"
	defaultEmailFromName    = "Kind Remind"
	defaultLogLevel         = "info"
	defaultJWTAccessSecret  = "change-me-access-secret"
	defaultJWTRefreshSecret = "change-me-refresh-secret"
	defaultJWTEmailSecret   = "change-me-email-secret"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	LogLevel    string

	JWT jwtsvc.Config

	CookieSecure bool
	CookiePath   string

	CORSAllowedOrigins []string
	FrontendURL        string

	SMTP SMTPConfig

	RedisAddr     string
	RedisPassword string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// Enabled reports whether mail should go out over SMTP rather than to the log.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return LoadFromEnv()
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))

	cfg.JWT.AccessSecret = strings.TrimSpace(getEnv("JWT_ACCESS_SECRET", defaultJWTAccessSecret))
	cfg.JWT.RefreshSecret = strings.TrimSpace(getEnv("JWT_REFRESH_SECRET", defaultJWTRefreshSecret))
	cfg.JWT.EmailSecret = strings.TrimSpace(getEnv("JWT_EMAIL_SECRET", defaultJWTEmailSecret))

	var err error
	cfg.JWT.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.JWT.RefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultJWTRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.JWT.EmailTTL, err = parseDurationEnv("JWT_EMAIL_TTL", defaultJWTEmailTTL)
	if err != nil {
		return nil, err
	}

	secureDefault := "false"
	if isProdLike(cfg.AppEnv) {
		secureDefault = "true"
	}
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", secureDefault)
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(getEnv("FRONTEND_URL", defaultFrontendURL)), "/")

	cfg.SMTP.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.SMTP.Port, err = parseIntEnv("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}
	cfg.SMTP.Username = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.FromName = strings.TrimSpace(getEnv("EMAIL_FROM_NAME", defaultEmailFromName))
	cfg.SMTP.FromAddress = strings.TrimSpace(os.Getenv("EMAIL_FROM_ADDRESS"))

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production cookie and secret rules.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.JWT.EmailTTL <= 0 {
		return fmt.Errorf("JWT_EMAIL_TTL must be > 0")
	}
	if cfg.JWT.AccessTTL >= cfg.JWT.RefreshTTL {
		return fmt.Errorf("JWT_ACCESS_TTL must be shorter than JWT_REFRESH_TTL")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.FromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS must be set when SMTP_HOST is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWT.AccessSecret, defaultJWTAccessSecret) {
			return fmt.Errorf("in production JWT_ACCESS_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.JWT.RefreshSecret, defaultJWTRefreshSecret) {
			return fmt.Errorf("in production JWT_REFRESH_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.JWT.EmailSecret, defaultJWTEmailSecret) {
			return fmt.Errorf("in production JWT_EMAIL_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in production COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
