package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	RedisURL            string `env:"REDIS_URL" envDefault:""`
	PortalSessionSecret string `env:"PORTAL_SESSION_SECRET"`
	StaffAPIKey         string `env:"STAFF_API_KEY"`
	SessionTTLHours     int    `env:"SESSION_TTL_HOURS" envDefault:"24"`
	TokenTTLHours       int    `env:"TOKEN_TTL_HOURS" envDefault:"168"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	PortalBaseURL       string `env:"PORTAL_BASE_URL" envDefault:""`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// TokenTTL is the default lifetime for portal access tokens when the issue
// request does not carry one.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("PORTAL_SESSION_SECRET", c.PortalSessionSecret); err != nil {
			return err
		}
		if err := validateSecret("STAFF_API_KEY", c.StaffAPIKey); err != nil {
			return err
		}
		if c.RedisURL == "" {
			log.Warn().Msg("REDIS_URL is empty: live updates will not fan out across instances")
		} else if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
