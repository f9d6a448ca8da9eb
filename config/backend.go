package config

import (
	"strings"
	"time"
)

const devBackendSecret = "dev-secret-change-me"

// BackendConfig points the console at the REST backend.
type BackendConfig struct {
	URL     string        `env:"URL"     envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (c *BackendConfig) Sanitize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// DevBackendConfig controls the in-memory backend used for local development.
type DevBackendConfig struct {
	Addr     string        `env:"ADDR"      envDefault:":5000"`
	Secret   string        `env:"SECRET"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails. In dev mode a missing secret falls back to a fixed value.
func (c *DevBackendConfig) Sanitize(isDev bool) {
	c.Secret = strings.TrimSpace(c.Secret)
	if c.Secret == "" && isDev {
		c.Secret = devBackendSecret
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
}
