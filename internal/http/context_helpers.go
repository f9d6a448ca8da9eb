package httpx

import (
	"context"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/router"
)

// Unexported context key types avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	sessionKey struct{}
	scopeKey   struct{}
	matchKey   struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the caller's decoded session and whether one was set.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && s != nil {
		return s, true
	}
	return nil, false
}

// SetScopeInContext records the caller's session scope id.
func SetScopeInContext(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the caller's session scope id, "" when the caller has none.
func ScopeFromContext(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(string)
	return s
}

// SetMatchInContext records the dashboard route a page request resolved to.
func SetMatchInContext(ctx context.Context, m router.Match) context.Context {
	return context.WithValue(ctx, matchKey{}, m)
}

// MatchFromContext returns the resolved dashboard route of a page request.
func MatchFromContext(ctx context.Context) (router.Match, bool) {
	m, ok := ctx.Value(matchKey{}).(router.Match)
	return m, ok
}
