package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	domainauth "github.com/notrick-no/iReasearch/internal/domain/auth"
	"github.com/notrick-no/iReasearch/internal/observability/metrics"
	"github.com/notrick-no/iReasearch/internal/ports"
	"golang.org/x/oauth2"
)

// Gate defaults mirror the dashboard's declared routes.
const (
	DefaultLoginPath      = "/login"
	DefaultHomePath       = "/"
	DefaultLoginRouteName = "Login"
)

// ResponseOutcome reports what OnResponse did with a response.
type ResponseOutcome int

const (
	// ResponsePassed means the response was left untouched.
	ResponsePassed ResponseOutcome = iota
	// SessionInvalidated means the persisted session was cleared after an authentication failure.
	SessionInvalidated
)

func (o ResponseOutcome) String() string {
	if o == SessionInvalidated {
		return "session_invalidated"
	}
	return "passed"
}

// GateOptions groups configuration for the session gate.
type GateOptions struct {
	LoginPath      string
	HomePath       string
	LoginRouteName string
	// RoleImpliesAuth makes a role requirement also require a token, even when
	// RequiresAuth is not set on the route.
	RoleImpliesAuth bool
	Metrics         metrics.GateRecorder
	Logger          *slog.Logger
}

// Gate decides whether a caller may see a destination and reacts to server-signalled
// session expiry. It holds no session state of its own; every call is handed the store
// it should read or clear.
type Gate struct {
	loginPath       string
	homePath        string
	loginRouteName  string
	roleImpliesAuth bool
	metrics         metrics.GateRecorder
	logger          *slog.Logger
}

// NewGate constructs a Gate, applying defaults for empty options.
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		loginPath:       opts.LoginPath,
		homePath:        opts.HomePath,
		loginRouteName:  opts.LoginRouteName,
		roleImpliesAuth: opts.RoleImpliesAuth,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
	}
	if g.loginPath == "" {
		g.loginPath = DefaultLoginPath
	}
	if g.homePath == "" {
		g.homePath = DefaultHomePath
	}
	if g.loginRouteName == "" {
		g.loginRouteName = DefaultLoginRouteName
	}
	if g.metrics == nil {
		g.metrics = metrics.Nop{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// LoginPath returns the redirect target used for unauthenticated callers.
func (g *Gate) LoginPath() string { return g.loginPath }

// LoginRouteName returns the route name treated as "already on the login page".
func (g *Gate) LoginRouteName() string { return g.loginRouteName }

// EvaluateNavigation decides a single transition. The auth check runs strictly before
// the role check. currentRouteName is accepted for parity with the navigation hook and
// does not influence the verdict.
func (g *Gate) EvaluateNavigation(
	req domainauth.RouteRequirement,
	sess domainauth.Session,
	_ string,
) domainauth.Verdict {
	needsAuth := req.RequiresAuth || (g.roleImpliesAuth && req.RequiresRole != domainauth.RoleNone)
	if needsAuth && !sess.HasToken() {
		return domainauth.RedirectTo(g.loginPath)
	}

	if req.RequiresRole != domainauth.RoleNone && !sess.Role().Satisfies(req.RequiresRole) {
		return domainauth.RedirectTo(g.homePath)
	}

	return domainauth.Proceed()
}

// Authorize loads the caller's session from store and evaluates the transition.
// A store failure is treated as an absent session so navigation always resolves.
func (g *Gate) Authorize(
	ctx context.Context,
	store ports.SessionStore,
	req domainauth.RouteRequirement,
	currentRouteName string,
) domainauth.Verdict {
	sess := g.LoadSession(ctx, store)
	v := g.EvaluateNavigation(req, sess, currentRouteName)
	g.metrics.Navigation(g.resultLabel(v))
	if !v.IsProceed() {
		g.logger.DebugContext(ctx, "navigation redirected",
			"verdict", v.String(),
			"requires_auth", req.RequiresAuth,
			"requires_role", string(req.RequiresRole),
			"has_token", sess.HasToken(),
		)
	}
	return v
}

// LoadSession reads and decodes the caller's session. Read errors and malformed
// user records degrade to the empty session.
func (g *Gate) LoadSession(ctx context.Context, store ports.SessionStore) domainauth.Session {
	if store == nil {
		return domainauth.Session{}
	}
	raw, err := store.Get(ctx)
	if err != nil {
		g.metrics.StoreError("get", err)
		g.logger.WarnContext(ctx, "session store read failed; treating caller as signed out", "error", err)
		return domainauth.Session{}
	}
	return domainauth.DecodeSession(raw)
}

// DecorateRequest attaches the session token as a bearer credential. Requests are left
// untouched when there is no token.
func (g *Gate) DecorateRequest(sess domainauth.Session, r *http.Request) {
	if r == nil || !sess.HasToken() {
		return
	}
	tok := &oauth2.Token{AccessToken: sess.Token}
	tok.SetAuthHeader(r)
}

// OnResponse inspects a transport response. A 401 clears the persisted session and,
// unless the caller is already on the login route, pushes the login path. Every other
// response passes through untouched.
//
// The redirect is attempted even if clearing the store failed; the clear error is
// returned so the caller can log it.
func (g *Gate) OnResponse(
	ctx context.Context,
	store ports.SessionStore,
	nav ports.Navigator,
	resp *http.Response,
) (ResponseOutcome, error) {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return ResponsePassed, nil
	}

	var errs []error
	if store != nil {
		if err := store.Clear(ctx); err != nil {
			g.metrics.StoreError("clear", err)
			errs = append(errs, fmt.Errorf("clear session: %w", err))
		}
	}

	redirected := false
	if nav != nil && nav.CurrentRouteName() != g.loginRouteName {
		if err := nav.Push(ctx, g.loginPath); err != nil {
			errs = append(errs, fmt.Errorf("redirect to login: %w", err))
		} else {
			redirected = true
		}
	}

	g.metrics.SessionInvalidated(redirected)
	g.logger.InfoContext(ctx, "session invalidated by server", "redirected", redirected)

	return SessionInvalidated, errors.Join(errs...)
}

func (g *Gate) resultLabel(v domainauth.Verdict) string {
	path, ok := v.Redirect()
	switch {
	case !ok:
		return metrics.ResultProceed
	case path == g.loginPath:
		return metrics.ResultRedirectLogin
	case path == g.homePath:
		return metrics.ResultRedirectHome
	default:
		return metrics.ResultRedirectOther
	}
}
