// Package memory provides an in-process session store for single-instance and dev deployments.
package memory

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/ports"
	gocache "github.com/patrickmn/go-cache"
)

// SessionStores keeps each scope's pair as a single cache entry, so the token and user
// are always written, read and evicted together.
type SessionStores struct {
	c *gocache.Cache
}

var _ ports.SessionStores = (*SessionStores)(nil)

// NewSessionStores creates an in-memory factory whose entries expire after ttl of inactivity
// since the last write.
func NewSessionStores(ttl time.Duration) *SessionStores {
	return &SessionStores{c: gocache.New(ttl, time.Minute)}
}

func (s *SessionStores) Scope(id string) ports.SessionStore {
	return &SessionStore{c: s.c, scope: id}
}

// Len reports the number of live scopes.
func (s *SessionStores) Len() int { return s.c.ItemCount() }

// SessionStore is the session pair of a single scope.
type SessionStore struct {
	c     *gocache.Cache
	scope string
}

func (s *SessionStore) Get(_ context.Context) (domainauth.StoredSession, error) {
	v, ok := s.c.Get(s.scope)
	if !ok {
		return domainauth.StoredSession{}, nil
	}
	sess, _ := v.(domainauth.StoredSession)
	return sess, nil
}

func (s *SessionStore) Set(_ context.Context, sess domainauth.StoredSession) error {
	if s.scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if sess.Empty() {
		s.c.Delete(s.scope)
		return nil
	}
	s.c.Set(s.scope, sess, gocache.DefaultExpiration)
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.c.Delete(s.scope)
	return nil
}
