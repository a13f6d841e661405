package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultListenAddr      = ":8080"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultPlatformTimeout = "15s"
	defaultDraftTTL        = "720h" // 30 days
)

// Config carries everything the front end needs at boot. The platform base
// URL points at the remote backend that owns all real business logic; the
// database URL is only for the local draft autosave store.
type Config struct {
	AppEnv     string
	ListenAddr string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	PlatformBaseURL string
	GeocodeBaseURL  string
	PlatformTimeout time.Duration

	DraftTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "hourlystay.db")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.PlatformBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("PLATFORM_BASE_URL")), "/")
	cfg.GeocodeBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("GEOCODE_BASE_URL")), "/")

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.PlatformTimeout, err = parseDurationEnv("PLATFORM_TIMEOUT", defaultPlatformTimeout)
	if err != nil {
		return nil, err
	}

	cfg.DraftTTL, err = parseDurationEnv("DRAFT_TTL", defaultDraftTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.PlatformBaseURL == "" {
		return fmt.Errorf("PLATFORM_BASE_URL must be set")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PlatformTimeout <= 0 {
		return fmt.Errorf("PLATFORM_TIMEOUT must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
