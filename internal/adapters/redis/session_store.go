// Package redis provides Redis-based adapters for the console gateway.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKey = "token"
	userKey  = "user"

	// DefaultTTL bounds how long an idle session pair survives in Redis.
	DefaultTTL = 24 * time.Hour
)

// SessionStores is a Redis-backed factory of per-caller session stores.
// Each scope keeps the token and user under two keys sharing a hash tag so that
// MULTI, MGET and DEL on the pair also work against Redis Cluster.
type SessionStores struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStores = (*SessionStores)(nil)

// NewSessionStores creates a Redis session store factory with the default prefix and TTL.
func NewSessionStores(client redis.UniversalClient) *SessionStores {
	return &SessionStores{
		client: client,
		prefix: "session:",
		ttl:    DefaultTTL,
	}
}

// NewSessionStoresWithPrefix creates a factory with a custom key prefix and TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewSessionStoresWithPrefix(client redis.UniversalClient, prefix string, ttl time.Duration) *SessionStores {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStores{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Scope returns the session store for one caller.
func (s *SessionStores) Scope(id string) ports.SessionStore {
	return &SessionStore{stores: s, scope: id}
}

// SessionStore is the session pair of a single scope.
type SessionStore struct {
	stores *SessionStores
	scope  string
}

func (s *SessionStore) key(name string) string {
	return s.stores.prefix + "{" + s.scope + "}:" + name
}

// Get reads both keys in one MGET so a concurrent Clear is observed entirely or not at all.
func (s *SessionStore) Get(ctx context.Context) (domainauth.StoredSession, error) {
	if s.scope == "" {
		return domainauth.StoredSession{}, nil
	}

	vals, err := s.stores.client.MGet(ctx, s.key(tokenKey), s.key(userKey)).Result()
	if err != nil {
		return domainauth.StoredSession{}, fmt.Errorf("redis mget: %w", err)
	}

	return domainauth.StoredSession{
		Token: stringValue(vals, 0),
		User:  stringValue(vals, 1),
	}, nil
}

// Set writes both keys inside MULTI/EXEC with the store TTL.
func (s *SessionStore) Set(ctx context.Context, sess domainauth.StoredSession) error {
	if s.scope == "" {
		return errors.New("session scope cannot be empty")
	}

	ttl := s.stores.ttl
	_, err := s.stores.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sess.Token == "" {
			pipe.Del(ctx, s.key(tokenKey))
		} else {
			pipe.Set(ctx, s.key(tokenKey), sess.Token, ttl)
		}
		if sess.User == "" {
			pipe.Del(ctx, s.key(userKey))
		} else {
			pipe.Set(ctx, s.key(userKey), sess.User, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Clear removes both keys with a single DEL. Clearing an empty scope is a no-op.
func (s *SessionStore) Clear(ctx context.Context) error {
	if s.scope == "" {
		return nil
	}
	if err := s.stores.client.Del(ctx, s.key(tokenKey), s.key(userKey)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func stringValue(vals []any, i int) string {
	if i >= len(vals) || vals[i] == nil {
		return ""
	}
	if s, ok := vals[i].(string); ok {
		return s
	}
	return ""
}
