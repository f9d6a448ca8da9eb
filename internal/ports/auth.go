package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
)

// SessionStore persists one caller's session as the token/user key pair.
// Set and Clear always write both keys together; Get reads both in one operation.
type SessionStore interface {
	Get(ctx context.Context) (domainauth.StoredSession, error)
	Set(ctx context.Context, sess domainauth.StoredSession) error
	Clear(ctx context.Context) error
}

// SessionStores hands out per-caller stores, e.g. one per browser on the server.
type SessionStores interface {
	Scope(id string) SessionStore
}

// Navigator receives redirect side effects and reports where the caller currently is.
type Navigator interface {
	CurrentRouteName() string
	Push(ctx context.Context, path string) error
}
