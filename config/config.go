package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Session gate configuration
//   - backend.go: Backend API and dev backend configuration
//   - database.go: Redis and session store configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, dev backend secret, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Session gate configuration
	Auth AuthConfig `envPrefix:"AUTH_"`

	// Backend REST API the console fronts
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// In-memory backend for local development
	DevBackend DevBackendConfig `envPrefix:"DEV_BACKEND_"`

	// Session storage
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Session SessionConfig `envPrefix:"SESSION_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"console"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	// Check NODE_ENV for dev mode
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Backend.Sanitize()
	c.DevBackend.Sanitize(c.IsDev)
	c.Session.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports configuration that cannot produce a working process.
func (c *AppConfig) Validate() error {
	services, err := c.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	var errs []error
	if services[ServiceModeConsole] {
		u, err := url.Parse(c.Backend.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.Backend.URL))
		}
	}
	if services[ServiceModeDevBackend] && c.DevBackend.Secret == "" {
		errs = append(errs, errors.New("DEV_BACKEND_SECRET is required outside dev mode"))
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsConsoleEnabled returns true if the console server is enabled.
func (c *AppConfig) IsConsoleEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeConsole]
}

// IsDevBackendEnabled returns true if the in-memory dev backend is enabled.
func (c *AppConfig) IsDevBackendEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeDevBackend]
}
