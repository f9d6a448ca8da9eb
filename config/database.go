package config

import (
	"fmt"
	"strings"
	"time"
)

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// PingTimeout bounds the startup connectivity check.
	PingTimeout time.Duration `env:"PING_TIMEOUT" envDefault:"5s"`
}

// SessionStoreMode selects where server-side sessions live.
type SessionStoreMode string

const (
	// SessionStoreRedis keeps sessions in Redis so several console replicas share them.
	SessionStoreRedis SessionStoreMode = "redis"
	// SessionStoreMemory keeps sessions in process memory (single replica, dev).
	SessionStoreMemory SessionStoreMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreMode.
func (m *SessionStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*m = SessionStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreMode: %q (valid options: redis, memory)", v)
	}
}

// SessionConfig controls server-side session scopes and the cookie that names them.
type SessionConfig struct {
	Store      SessionStoreMode `env:"STORE"       envDefault:"memory"`
	TTL        time.Duration    `env:"TTL"         envDefault:"24h"`
	CookieName string           `env:"COOKIE_NAME" envDefault:"session_id"`
	KeyPrefix  string           `env:"KEY_PREFIX"  envDefault:"session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.Store == "" {
		c.Store = SessionStoreMemory
	}
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "session_id"
	}
}
