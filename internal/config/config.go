package config

import (
	"fmt"
	"os"
)

type Config struct {
	// ServiceName is set by the binary, not the environment.
	ServiceName string

	CloudIntegrationsPort string
	SecurityServicesPort  string
	FrontendURL           string
	JWTSecret             string
	DatabaseURL           string
	Env                   string
	LogLevel              string
	AWSLiveMode           bool
	RateLimitDisabled     bool
}

func Load() (*Config, error) {
	cfg := &Config{
		CloudIntegrationsPort: getEnv("CLOUD_INTEGRATIONS_PORT", "8002"),
		SecurityServicesPort:  getEnv("SECURITY_SERVICES_PORT", "8004"),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		AWSLiveMode:           getEnv("AWS_LIVE_MODE", "") == "true",
		RateLimitDisabled:     getEnv("RATE_LIMIT_DISABLED", "") == "true",
	}

	return cfg, nil
}

// Validate checks that the settings required by the given service are present.
func (c *Config) Validate(service string) error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if service == "security-services" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for security-services")
	}
	return nil
}

// IsProduction reports whether the service runs with production error masking.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
