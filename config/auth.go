package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// AuthConfig controls the session gate and how login responses are read.
type AuthConfig struct {
	// LoginPath is where unauthenticated navigations are sent.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// HomePath is where navigations with an insufficient role are sent.
	HomePath string `env:"HOME_PATH" envDefault:"/"`

	// LoginRouteName names the route on which a 401 does not trigger another redirect.
	LoginRouteName string `env:"LOGIN_ROUTE_NAME" envDefault:"Login"`

	// RoleImpliesAuth makes every role-gated route also require a token.
	RoleImpliesAuth bool `env:"ROLE_IMPLIES_AUTH" envDefault:"true"`

	// TokenPath and UserPath are JMESPath expressions applied to the login response body.
	TokenPath string `env:"TOKEN_PATH" envDefault:"token"`
	UserPath  string `env:"USER_PATH"  envDefault:"user"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	c.LoginPath = ensureLeadingSlash(strings.TrimSpace(c.LoginPath), "/login")
	c.HomePath = ensureLeadingSlash(strings.TrimSpace(c.HomePath), "/")
	if c.LoginRouteName = strings.TrimSpace(c.LoginRouteName); c.LoginRouteName == "" {
		c.LoginRouteName = "Login"
	}
	if c.TokenPath = strings.TrimSpace(c.TokenPath); c.TokenPath == "" {
		c.TokenPath = "token"
	}
	if c.UserPath = strings.TrimSpace(c.UserPath); c.UserPath == "" {
		c.UserPath = "user"
	}
}

// ParseAuthEnv reads the AUTH_* variables on their own, for tools such as the CLI that
// do not load the full AppConfig.
func ParseAuthEnv() (AuthConfig, error) {
	var c AuthConfig
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "AUTH_"}); err != nil {
		return c, fmt.Errorf("parse auth config: %w", err)
	}
	c.Sanitize()
	return c, nil
}

func ensureLeadingSlash(p, fallback string) string {
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
